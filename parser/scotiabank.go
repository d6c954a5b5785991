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
	scotiabankURL   = "https://cdn.aglty.io/scotiabank-colombia/scotiabank-colpatria/pdf/tasas-y-tarifas/Tasas-y-productos-credito.pdf"
	scotiabankLabel = "Tasas y productos de crédito"

	scotiabankSectionMarker = "Hipotecario y leasing habitacional"
)

var (
	// "Vivienda VIS UVR UVR + 6,60% UVR + 6,80%"
	scotiabankUVRRegex = regexp.MustCompile(
		`(?i)Vivienda\s+(No\s+VIS|VIS)\s+UVR\s+UVR\s*\+\s*([\d.,]+)\s*%\s+UVR\s*\+\s*([\d.,]+)\s*%`)

	// "Vivienda VIS Pesos 12,15% 12,35%"
	scotiabankCOPRegex = regexp.MustCompile(
		`(?i)Vivienda\s+(No\s+VIS|VIS)\s+Pesos\s+([\d.,]+)\s*%\s+([\d.,]+)\s*%`)

	// "Leasing Habitacional Pesos 12,25% 12,45%"
	scotiabankLeasingRegex = regexp.MustCompile(
		`(?i)Leasing\s+Habitacional\s+Pesos\s+([\d.,]+)\s*%\s+([\d.,]+)\s*%`)
)

// Scotiabank extracts the "Hipotecario y leasing habitacional" section
// of the credit products PDF: VIS / No VIS ranges in UVR and pesos plus
// an unsegmented leasing range
type Scotiabank struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewScotiabank(cfg Config, fetcher fetch.Fetcher) *Scotiabank {
	return &Scotiabank{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *Scotiabank) BankID() banks.ID {
	return banks.ScotiabankColpatria
}

func (p *Scotiabank) SourceURL() string {
	return scotiabankURL
}

func (p *Scotiabank) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.ScotiabankColpatria, scotiabankURL, ".pdf")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.ScotiabankColpatria,
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

	extracted, warnings := extractScotiabankRates(text)
	result.Warnings = append(result.Warnings, warnings...)

	for _, ex := range extracted {
		result.Offers = append(result.Offers, newOffer(
			banks.ScotiabankColpatria,
			ex.product,
			ex.currency,
			ex.segment,
			types.ChannelUnspecified,
			ex.rate,
			types.Conditions{},
			types.Source{
				URL:             scotiabankURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   scotiabankLabel,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionRegex,
					Locator: "hipotecario_leasing_section",
					Excerpt: ex.excerpt,
				},
			},
		))
	}

	if len(result.Offers) < 5 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 5 (4 hipotecario + 1 leasing)", len(result.Offers)),
		)
	}

	return result, nil
}

func extractScotiabankRates(text string) ([]extractedRate, []string) {
	if !strings.Contains(text, scotiabankSectionMarker) {
		return nil, []string{fmt.Sprintf("could not find %q section", scotiabankSectionMarker)}
	}

	var (
		out      []extractedRate
		warnings []string
	)

	for _, m := range scotiabankUVRRegex.FindAllStringSubmatch(text, -1) {
		from, errFrom := ParseLocaleNumber(m[2])
		to, errTo := ParseLocaleNumber(m[3])

		if errFrom != nil || errTo != nil {
			warnings = append(warnings, fmt.Sprintf("unable to parse UVR row %q", m[0]))

			continue
		}

		out = append(out, extractedRate{
			product:  types.ProductHipotecario,
			currency: types.CurrencyUVR,
			segment:  segmentFromLabel(m[1]),
			rate: types.Rate{
				Kind:         types.RateUVRSpread,
				SpreadEAFrom: from,
				SpreadEATo:   to,
			},
			excerpt: strings.TrimSpace(m[0]),
		})
	}

	for _, m := range scotiabankCOPRegex.FindAllStringSubmatch(text, -1) {
		from, errFrom := ParseLocaleNumber(m[2])
		to, errTo := ParseLocaleNumber(m[3])

		if errFrom != nil || errTo != nil {
			warnings = append(warnings, fmt.Sprintf("unable to parse pesos row %q", m[0]))

			continue
		}

		out = append(out, extractedRate{
			product:  types.ProductHipotecario,
			currency: types.CurrencyCOP,
			segment:  segmentFromLabel(m[1]),
			rate: types.Rate{
				Kind:          types.RateCOPFixed,
				EAPercentFrom: from,
				EAPercentTo:   to,
			},
			excerpt: strings.TrimSpace(m[0]),
		})
	}

	// Leasing carries no VIS / No VIS split in this disclosure
	if m := scotiabankLeasingRegex.FindStringSubmatch(text); m != nil {
		from, errFrom := ParseLocaleNumber(m[1])
		to, errTo := ParseLocaleNumber(m[2])

		if errFrom == nil && errTo == nil {
			out = append(out, extractedRate{
				product:  types.ProductLeasing,
				currency: types.CurrencyCOP,
				segment:  types.SegmentUnknown,
				rate: types.Rate{
					Kind:          types.RateCOPFixed,
					EAPercentFrom: from,
					EAPercentTo:   to,
				},
				excerpt: strings.TrimSpace(m[0]),
			})
		} else {
			warnings = append(warnings, fmt.Sprintf("unable to parse leasing row %q", m[0]))
		}
	} else {
		warnings = append(warnings, "no leasing row matched")
	}

	if len(out) == 0 {
		warnings = append(warnings, "no rate rows matched, pdf structure may have changed")
	}

	return out, warnings
}
