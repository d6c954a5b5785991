package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/types"
)

const (
	occidenteURL   = "https://www.bancodeoccidente.com.co/banco-de-occidente/documentos/tasas-tarifas/para-personas/tasas/tasas-personas.pdf"
	occidenteLabel = "Tasas y Tarifas - Personas"
)

// The PDF renderer splits digits of a single figure across tokens, so a
// rate like 11,62% surfaces as "1 1 , 62 %" in the flattened text
var occidenteRateRegex = regexp.MustCompile(`\d\s*\d?\s*,\s*\d\s*\d?\s*%`)

// BancoDeOccidente extracts the Vivienda row of the personal rates PDF.
// The row carries four figures: hipotecario desde/hasta followed by
// leasing desde/hasta, all COP with no VIS segmentation
type BancoDeOccidente struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewBancoDeOccidente(cfg Config, fetcher fetch.Fetcher) *BancoDeOccidente {
	return &BancoDeOccidente{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *BancoDeOccidente) BankID() banks.ID {
	return banks.BancoDeOccidente
}

func (p *BancoDeOccidente) SourceURL() string {
	return occidenteURL
}

func (p *BancoDeOccidente) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.BancoDeOccidente, occidenteURL, ".pdf")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.BancoDeOccidente,
		Offers:      []types.Offer{},
		Warnings:    []string{},
		RawTextHash: SHA256Hex(content),
	}

	retrievedAt := time.Now().UTC()

	text, err := pdfText(content)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("failed to extract pdf text: %v", err))

		return result, nil
	}

	extracted, warnings := extractOccidenteRates(text)
	result.Warnings = append(result.Warnings, warnings...)

	for _, ex := range extracted {
		result.Offers = append(result.Offers, newOffer(
			banks.BancoDeOccidente,
			ex.product,
			types.CurrencyCOP,
			types.SegmentUnknown,
			types.ChannelUnspecified,
			ex.rate,
			types.Conditions{},
			types.Source{
				URL:             occidenteURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   occidenteLabel,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionRegex,
					Locator: "vivienda_section",
					Excerpt: ex.excerpt,
				},
			},
		))
	}

	if len(result.Offers) < 2 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 2 (hipotecario + leasing)", len(result.Offers)),
		)
	}

	return result, nil
}

// extractOccidenteRates pulls the four vivienda figures out of the
// flattened PDF text
func extractOccidenteRates(text string) ([]extractedRate, []string) {
	idx := strings.Index(text, "Vivienda")
	if idx == -1 {
		return nil, []string{"could not find 'Vivienda' section"}
	}

	window := text[idx:]
	if len(window) > 500 {
		window = window[:500]
	}

	matches := occidenteRateRegex.FindAllString(window, -1)
	if len(matches) < 4 {
		return nil, []string{"no mortgage rates extracted, pdf structure may have changed"}
	}

	values := make([]float64, 0, 4)

	for _, m := range matches[:4] {
		v, err := ParseLocaleNumber(m)
		if err != nil {
			return nil, []string{fmt.Sprintf("unable to parse rate %q: %v", m, err)}
		}

		values = append(values, v)
	}

	return []extractedRate{
		{
			product: types.ProductHipotecario,
			rate: types.Rate{
				Kind:          types.RateCOPFixed,
				EAPercentFrom: values[0],
				EAPercentTo:   values[1],
			},
			excerpt: fmt.Sprintf("Crédito Hipotecario: %s - %s", matches[0], matches[1]),
		},
		{
			product: types.ProductLeasing,
			rate: types.Rate{
				Kind:          types.RateCOPFixed,
				EAPercentFrom: values[2],
				EAPercentTo:   values[3],
			},
			excerpt: fmt.Sprintf("Leasing Habitacional: %s - %s", matches[2], matches[3]),
		},
	}, nil
}
