package extract

import (
	"testing"
	"time"

	"scrape-web3/internal/model"
)

const contractsPage = `<html><body>
<table class="table">
<thead><tr><th>Address</th><th>Name</th><th>Compiler</th><th>Creator</th><th>Txns</th><th>Setting</th><th>Verified</th></tr></thead>
<tbody>
<tr>
  <td><a href="/address/0xabcdef1234567890abcdef1234567890abcdef12">0xabcd...ef12</a></td>
  <td>TokenVault</td>
  <td>v0.8.19+commit.7dd6d404</td>
  <td><a href="/address/0x1111111111111111111111111111111111111111">0x1111...1111</a></td>
  <td>42</td><td>-</td><td>1 day ago</td>
</tr>
<tr>
  <td>spacer row</td><td>too</td><td>short</td>
</tr>
<tr>
  <td>0x2222222222222222222222222222222222222222</td>
  <td>Faucet</td>
  <td>v0.8.24+commit.e11b9ed9</td>
  <td>0x3333333333333333333333333333333333333333</td>
  <td>7</td><td>-</td><td>2 days ago</td>
</tr>
</tbody>
</table>
</body></html>`

func TestContracts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("rows become records, short rows skipped", func(t *testing.T) {
		contracts := Contracts(contractsPage, now)
		if len(contracts) != 2 {
			t.Fatalf("len(contracts) = %d, want 2", len(contracts))
		}

		first := contracts[0]
		if first.ContractAddress != "0xabcdef1234567890abcdef1234567890abcdef12" {
			t.Errorf("ContractAddress = %q, want the href path segment", first.ContractAddress)
		}
		if first.ContractName != "TokenVault" {
			t.Errorf("ContractName = %q", first.ContractName)
		}
		if first.CompilerVersion != "v0.8.19+commit.7dd6d404" {
			t.Errorf("CompilerVersion = %q", first.CompilerVersion)
		}
		if first.ContractCreator != "0x1111...1111" {
			t.Errorf("ContractCreator = %q", first.ContractCreator)
		}
		if first.SourceCode != model.SourceCodePlaceholder {
			t.Errorf("SourceCode = %q", first.SourceCode)
		}
		if !first.DiscoveredAt.Equal(now) {
			t.Errorf("DiscoveredAt = %v, want %v", first.DiscoveredAt, now)
		}
	})

	t.Run("address falls back to cell text without a link", func(t *testing.T) {
		contracts := Contracts(contractsPage, now)
		if contracts[1].ContractAddress != "0x2222222222222222222222222222222222222222" {
			t.Errorf("ContractAddress = %q, want raw cell text", contracts[1].ContractAddress)
		}
	})

	t.Run("missing table yields nothing", func(t *testing.T) {
		if got := Contracts(`<html><body><p>maintenance</p></body></html>`, now); got != nil {
			t.Fatalf("Contracts() = %v, want nil", got)
		}
	})

	t.Run("other tables are ignored", func(t *testing.T) {
		html := `<table><tbody><tr><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td>f</td><td>g</td></tr></tbody></table>`
		if got := Contracts(html, now); got != nil {
			t.Fatalf("Contracts() = %v, want nil for a table without the result class", got)
		}
	})
}
