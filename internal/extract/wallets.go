// Package extract turns fetched HTML documents into candidate records.
// Extraction is pure: no I/O, no retained state, one fixed page shape per
// variant.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scrape-web3/internal/model"
	"scrape-web3/internal/validate"
)

// noResultsSentinel appears in the accounts listing body when a search
// query matched nothing; its presence short-circuits extraction.
const noResultsSentinel = "No matching accounts found"

var addressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

// Wallets extracts wallet addresses from an accounts listing page. It
// selects anchors whose href points at an address page, pulls the hex
// address out of the href, and keeps only addresses that survive the
// EIP-55 check. Each kept address is tagged with the supplied exchange
// name and originating URL.
func Wallets(html, exchangeName, sourceURL string) []model.WalletRecord {
	if strings.Contains(html, noResultsSentinel) {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var wallets []model.WalletRecord
	doc.Find(`a[href*='/address/']`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		address := addressPattern.FindString(href)
		if address == "" {
			return
		}
		if !validate.IsValidAddress(address) {
			return
		}
		wallets = append(wallets, model.WalletRecord{
			ExchangeName:  exchangeName,
			WalletAddress: address,
			SourceURL:     sourceURL,
		})
	})

	return wallets
}
