package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"scrape-web3/internal/model"
)

// minContractCells is the number of columns a verified-contracts row must
// carry before it is trusted; shorter rows (ads, spacers) are skipped.
const minContractCells = 7

// Contracts extracts verified-contract rows from a contractsVerified
// listing page. Only the first result table is considered; a missing table
// yields nothing. The contract address prefers the /address/<addr> path
// segment of an embedded link over the raw cell text.
func Contracts(html string, discoveredAt time.Time) []model.ContractRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	table := doc.Find("table.table").First()
	if table.Length() == 0 {
		return nil
	}

	var contracts []model.ContractRecord
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minContractCells {
			return
		}

		addressCell := cells.Eq(0)
		address := strings.TrimSpace(addressCell.Text())
		if href, ok := addressCell.Find("a").First().Attr("href"); ok {
			if seg := addressPathSegment(href); seg != "" {
				address = seg
			}
		}

		contracts = append(contracts, model.ContractRecord{
			ContractAddress: address,
			ContractName:    strings.TrimSpace(cells.Eq(1).Text()),
			CompilerVersion: strings.TrimSpace(cells.Eq(2).Text()),
			ContractCreator: strings.TrimSpace(cells.Eq(3).Text()),
			SourceCode:      model.SourceCodePlaceholder,
			DiscoveredAt:    discoveredAt,
		})
	})

	return contracts
}

// addressPathSegment returns the second path segment of an href like
// "/address/0xabc..." or "" when the link has no such segment.
func addressPathSegment(href string) string {
	parts := strings.Split(href, "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	return ""
}
