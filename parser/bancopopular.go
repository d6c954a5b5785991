package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/types"
)

const (
	popularURL   = "https://www.bancopopular.com.co/wps/portal/bancopopular/inicio/informacion-interes/tasas"
	popularLabel = "Tasas y Tarifas - Casayá"

	popularSectionSel = "#table-rates-casaya"
	popularTableSel   = "table.simple-table"
)

// BancoPopular extracts the Casayá housing rates table. The table lists
// one row per product with 15-year and 20-year E.A. columns; the 15-year
// figure is the lower bound and the 20-year one closes the range.
// The bank does not segment VIS / No VIS
type BancoPopular struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewBancoPopular(cfg Config, fetcher fetch.Fetcher) *BancoPopular {
	return &BancoPopular{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *BancoPopular) BankID() banks.ID {
	return banks.BancoPopular
}

func (p *BancoPopular) SourceURL() string {
	return popularURL
}

func (p *BancoPopular) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.BancoPopular, popularURL, ".html")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.BancoPopular,
		Offers:      []types.Offer{},
		Warnings:    []string{},
		RawTextHash: SHA256Hex(content),
	}

	retrievedAt := time.Now().UTC()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unable to parse html: %v", err))

		return result, nil
	}

	section := doc.Find(popularSectionSel)
	if section.Length() == 0 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("could not find Casayá section (%s)", popularSectionSel),
		)

		return result, nil
	}

	table := section.Find(popularTableSel)
	if table.Length() == 0 {
		result.Warnings = append(result.Warnings, "could not find rate table in Casayá section")

		return result, nil
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		var (
			productName = strings.TrimSpace(cells.Eq(0).Text())
			rate15yr    = strings.TrimSpace(cells.Eq(1).Text())
			rate20yr    = strings.TrimSpace(cells.Eq(2).Text())
		)

		var product types.ProductType

		switch {
		case strings.Contains(strings.ToLower(productName), "leasing"):
			product = types.ProductLeasing
		case strings.Contains(strings.ToLower(productName), "hipotecario"):
			product = types.ProductHipotecario
		default:
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown product type: %s", productName))

			return
		}

		eaFrom, err := ParseAnnualPercent(rate15yr)
		if err != nil {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("unable to parse rate %q for %s: %v", rate15yr, productName, err),
			)

			return
		}

		rate := types.Rate{
			Kind:          types.RateCOPFixed,
			EAPercentFrom: eaFrom,
		}

		// The 20-year column is optional for the range
		if eaTo, err := ParseAnnualPercent(rate20yr); err == nil {
			rate.EAPercentTo = eaTo
		}

		result.Offers = append(result.Offers, newOffer(
			banks.BancoPopular,
			product,
			types.CurrencyCOP,
			types.SegmentUnknown,
			types.ChannelUnspecified,
			rate,
			types.Conditions{},
			types.Source{
				URL:             popularURL,
				SourceType:      types.SourceHTML,
				DocumentLabel:   popularLabel,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionCSSSelector,
					Locator: popularSectionSel + " " + popularTableSel,
					Excerpt: fmt.Sprintf("%s: %s - %s", productName, rate15yr, rate20yr),
				},
			},
		))
	})

	switch {
	case len(result.Offers) == 0:
		result.Warnings = append(result.Warnings, "no offers extracted, page structure may have changed")
	case len(result.Offers) < 2:
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 2 (hipotecario + leasing)", len(result.Offers)),
		)
	}

	return result, nil
}
