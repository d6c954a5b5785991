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

const bancolombiaLabel = "Crédito hipotecario para comprar vivienda"

// Bancolombia extracts rates from the bank's mortgage landing page.
// The page carries two heading-led sections, "Tasas para vivienda en UVR"
// and "Tasas para vivienda en pesos", each followed by a VIS / No VIS table
type Bancolombia struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewBancolombia(cfg Config, fetcher fetch.Fetcher) *Bancolombia {
	return &Bancolombia{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *Bancolombia) BankID() banks.ID {
	return banks.Bancolombia
}

func (p *Bancolombia) SourceURL() string {
	return banks.URL(banks.Bancolombia)
}

func (p *Bancolombia) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.Bancolombia, p.SourceURL(), ".html")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.Bancolombia,
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

	// Bancolombia advertises the payroll benefit as prose, not as a
	// table column, so the discount is a known per-bank constant
	payroll := &types.PayrollDiscount{
		Type:      types.DiscountPercentOff,
		Value:     1.0,
		AppliesTo: "RATE",
		Note:      "1% menos en la tasa para clientes con nómina Bancolombia",
	}

	sectionsFound := 0

	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		title := strings.ToLower(strings.TrimSpace(heading.Text()))

		var currency types.CurrencyIndex

		switch {
		case strings.Contains(title, "tasas para vivienda en uvr"):
			currency = types.CurrencyUVR
		case strings.Contains(title, "tasas para vivienda en pesos"):
			currency = types.CurrencyCOP
		default:
			return
		}

		table := heading.NextAllFiltered("table").First()
		if table.Length() == 0 {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("no rate table after heading %q", strings.TrimSpace(heading.Text())),
			)

			return
		}

		sectionsFound++

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}

			label := strings.TrimSpace(cells.Eq(0).Text())

			segment := segmentFromLabel(label)
			if segment == types.SegmentUnknown {
				return
			}

			rateText := strings.TrimSpace(cells.Eq(1).Text())

			rate, perr := p.parseRate(currency, rateText)
			if perr != nil {
				result.Warnings = append(
					result.Warnings,
					fmt.Sprintf("unable to parse rate %q for %q: %v", rateText, label, perr),
				)

				return
			}

			result.Offers = append(result.Offers, newOffer(
				banks.Bancolombia,
				types.ProductHipotecario,
				currency,
				segment,
				types.ChannelUnspecified,
				rate,
				types.Conditions{PayrollDiscount: payroll},
				types.Source{
					URL:             p.SourceURL(),
					SourceType:      types.SourceHTML,
					DocumentLabel:   bancolombiaLabel,
					RetrievedAt:     retrievedAt,
					TextFingerprint: result.RawTextHash,
					Extraction: types.ExtractionInfo{
						Method:  types.ExtractionCSSSelector,
						Locator: "h2/h3 + table",
						Excerpt: fmt.Sprintf("%s: %s", label, rateText),
					},
				},
			))
		})
	})

	if sectionsFound == 0 {
		result.Warnings = append(result.Warnings, "could not find 'Tasas para vivienda' sections")
	}

	if len(result.Offers) > 0 && len(result.Offers) < 4 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 4 (VIS/No VIS x UVR/pesos)", len(result.Offers)),
		)
	}

	return result, nil
}

func (p *Bancolombia) parseRate(currency types.CurrencyIndex, text string) (types.Rate, error) {
	if currency == types.CurrencyUVR {
		spread, err := ParseIndexSpread(text)
		if err != nil {
			return types.Rate{}, err
		}

		return types.Rate{
			Kind:         types.RateUVRSpread,
			SpreadEAFrom: spread,
		}, nil
	}

	percent, err := ParseAnnualPercent(text)
	if err != nil {
		return types.Rate{}, err
	}

	return types.Rate{
		Kind:          types.RateCOPFixed,
		EAPercentFrom: percent,
	}, nil
}
