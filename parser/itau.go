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
	itauURL   = "https://banco.itau.co/documents/d/personas/tasas-vigentes-pn-color-01-dic-2025"
	itauLabel = "Tasas Vigentes Personas Naturales"
)

var (
	// "Crédito Hipotecario Desde 12,80% E.A."
	itauHipotecarioRegex = regexp.MustCompile(
		`(?i)Crédito\s+Hipotecario\s+Desde\s+([\d.,]+)\s*%`)

	// "Leasing Habitacional Desde 12,60% E.A."
	itauLeasingRegex = regexp.MustCompile(
		`(?i)Leasing\s+Habitacional\s+Desde\s+([\d.,]+)\s*%`)
)

// Itau extracts the personal rates PDF. The disclosure quotes a single
// "desde" pesos rate per housing product and does not split VIS / No VIS
type Itau struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewItau(cfg Config, fetcher fetch.Fetcher) *Itau {
	return &Itau{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *Itau) BankID() banks.ID {
	return banks.Itau
}

func (p *Itau) SourceURL() string {
	return itauURL
}

func (p *Itau) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.Itau, itauURL, ".pdf")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.Itau,
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

	products := []struct {
		pattern *regexp.Regexp
		product types.ProductType
		marker  string
	}{
		{itauHipotecarioRegex, types.ProductHipotecario, "Crédito Hipotecario"},
		{itauLeasingRegex, types.ProductLeasing, "Leasing Habitacional"},
	}

	for _, entry := range products {
		m := entry.pattern.FindStringSubmatch(text)
		if m == nil {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("could not find %q rate", entry.marker),
			)

			continue
		}

		from, err := ParseLocaleNumber(m[1])
		if err != nil {
			result.Warnings = append(
				result.Warnings,
				fmt.Sprintf("unable to parse rate %q for %s: %v", m[1], entry.marker, err),
			)

			continue
		}

		result.Offers = append(result.Offers, newOffer(
			banks.Itau,
			entry.product,
			types.CurrencyCOP,
			types.SegmentUnknown,
			types.ChannelUnspecified,
			types.Rate{
				Kind:          types.RateCOPFixed,
				EAPercentFrom: from,
			},
			types.Conditions{},
			types.Source{
				URL:             itauURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   itauLabel,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionRegex,
					Locator: entry.marker,
					Excerpt: strings.TrimSpace(m[0]),
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
