package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/types"
)

const (
	cajaSocialURL   = "https://www.bancocajasocial.com/content/dam/bcs/documentos/informacion-corporativa/tasas-precios-y-comisiones/credito-vivienda/Tasas-Credito-Vivienda.pdf"
	cajaSocialLabel = "Tasas Crédito de Vivienda"
)

var (
	// "VIS Pesos 10,00% 14,85% 0,80% 1,16%" — E.A. range then M.V. range
	cajaSocialRowRegex = regexp.MustCompile(
		`(?i)(No\s+VIS|VIS)\s+(Pesos|UVR)\s+([\d.,]+)\s*%\s+([\d.,]+)\s*%\s+([\d.,]+)\s*%\s+([\d.,]+)\s*%`)

	// "Vigentes a partir del 15 de enero de 2026"
	cajaSocialValidFromRegex = regexp.MustCompile(
		`(?i)Vigentes?\s+a\s+partir\s+del\s+(\d{1,2})\s+de\s+([a-záéíóú]+)\s+de\s+(\d{4})`)
)

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// CajaSocial extracts the housing-credit rates PDF: VIS and No VIS rows
// in pesos and UVR, each with E.A. and M.V. ranges, plus the disclosure's
// "Vigentes a partir del" effective date
type CajaSocial struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewCajaSocial(cfg Config, fetcher fetch.Fetcher) *CajaSocial {
	return &CajaSocial{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *CajaSocial) BankID() banks.ID {
	return banks.BancoCajaSocial
}

func (p *CajaSocial) SourceURL() string {
	return cajaSocialURL
}

func (p *CajaSocial) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.BancoCajaSocial, cajaSocialURL, ".pdf")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.BancoCajaSocial,
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

	validFrom := parseCajaSocialValidFrom(text)
	if validFrom == "" {
		result.Warnings = append(result.Warnings, "could not find 'Vigentes a partir del' date")
	}

	extracted, warnings := extractCajaSocialRates(text)
	result.Warnings = append(result.Warnings, warnings...)

	for _, ex := range extracted {
		result.Offers = append(result.Offers, newOffer(
			banks.BancoCajaSocial,
			types.ProductHipotecario,
			ex.currency,
			ex.segment,
			types.ChannelUnspecified,
			ex.rate,
			types.Conditions{},
			types.Source{
				URL:             cajaSocialURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   cajaSocialLabel,
				ValidFrom:       validFrom,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionRegex,
					Locator: "vivienda_rate_row",
					Excerpt: ex.excerpt,
				},
			},
		))
	}

	if len(result.Offers) < 4 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 4 (VIS/No VIS x pesos/UVR)", len(result.Offers)),
		)
	}

	return result, nil
}

func extractCajaSocialRates(text string) ([]extractedRate, []string) {
	matches := cajaSocialRowRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, []string{"no rate rows matched, pdf structure may have changed"}
	}

	var (
		out      []extractedRate
		warnings []string
	)

	for _, m := range matches {
		values := make([]float64, 0, 4)

		parseFailed := false

		for _, raw := range m[3:7] {
			v, err := ParseLocaleNumber(raw)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("unable to parse row %q: %v", m[0], err))
				parseFailed = true

				break
			}

			values = append(values, v)
		}

		if parseFailed {
			continue
		}

		ex := extractedRate{
			segment: segmentFromLabel(m[1]),
			excerpt: strings.TrimSpace(m[0]),
		}

		if strings.EqualFold(m[2], "UVR") {
			ex.currency = types.CurrencyUVR
			ex.rate = types.Rate{
				Kind:         types.RateUVRSpread,
				SpreadEAFrom: values[0],
				SpreadEATo:   values[1],
				SpreadMVFrom: values[2],
				SpreadMVTo:   values[3],
			}
		} else {
			ex.currency = types.CurrencyCOP
			ex.rate = types.Rate{
				Kind:          types.RateCOPFixed,
				EAPercentFrom: values[0],
				EAPercentTo:   values[1],
				MVPercentFrom: values[2],
				MVPercentTo:   values[3],
			}
		}

		out = append(out, ex)
	}

	return out, warnings
}

// parseCajaSocialValidFrom extracts the effective date as YYYY-MM-DD,
// or returns "" when the marker is absent
func parseCajaSocialValidFrom(text string) string {
	m := cajaSocialValidFromRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	month, ok := spanishMonths[strings.ToLower(m[2])]
	if !ok {
		return ""
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}

	return fmt.Sprintf("%s-%02d-%02d", m[3], int(month), day)
}
