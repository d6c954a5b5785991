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
	bbvaURL   = "https://www.bbva.com.co/content/dam/public-web/colombia/documents/home/prefooter/tarifas/DO-11-TASAS-VIVIENDA.pdf"
	bbvaLabel = "Tasas de interés líneas de vivienda"

	bbvaLeasingMarker = "Leasing Habitacional"
)

var (
	// "VIS Tasa Fija en Pesos 0,78% M.V. 9,77% E.A."
	bbvaCOPRowRegex = regexp.MustCompile(
		`(?i)(No\s+VIS|VIS)\s+Tasa\s+Fija\s+en\s+Pesos\s+([\d.,]+)\s*%\s*M\.?\s*V\.?\s+([\d.,]+)\s*%\s*E\.?\s*A\.?`)

	// "VIS UVR UVR + 0,45% M.V. UVR + 5,52% E.A."
	bbvaUVRRowRegex = regexp.MustCompile(
		`(?i)(No\s+VIS|VIS)\s+UVR\s+UVR\s*\+\s*([\d.,]+)\s*%\s*M\.?\s*V\.?\s+UVR\s*\+\s*([\d.,]+)\s*%\s*E\.?\s*A\.?`)
)

// bbvaPayrollBPS is the advertised payroll benefit per hipotecario cell,
// stated as prose in the PDF footnotes: non-payroll clients pay the listed
// rate plus this many basis points
var bbvaPayrollBPS = map[types.CurrencyIndex]map[types.Segment]float64{
	types.CurrencyCOP: {
		types.SegmentVIS:   200,
		types.SegmentNoVIS: 250,
	},
	types.CurrencyUVR: {
		types.SegmentVIS:   200,
		types.SegmentNoVIS: 150,
	},
}

// BBVA extracts the DO-11 housing rates PDF: hipotecario VIS / No VIS in
// pesos and UVR (with M.V. equivalents), followed by a Leasing
// Habitacional section in pesos
type BBVA struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewBBVA(cfg Config, fetcher fetch.Fetcher) *BBVA {
	return &BBVA{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *BBVA) BankID() banks.ID {
	return banks.BBVA
}

func (p *BBVA) SourceURL() string {
	return bbvaURL
}

func (p *BBVA) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, err := p.cfg.document(ctx, p.fetcher, banks.BBVA, bbvaURL, ".pdf")
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.BBVA,
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

	extracted, warnings := extractBBVARates(text)
	result.Warnings = append(result.Warnings, warnings...)

	for _, ex := range extracted {
		result.Offers = append(result.Offers, newOffer(
			banks.BBVA,
			ex.product,
			ex.currency,
			ex.segment,
			types.ChannelUnspecified,
			ex.rate,
			types.Conditions{PayrollDiscount: ex.discount},
			types.Source{
				URL:             bbvaURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   bbvaLabel,
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

	if len(result.Offers) < 6 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 6 (4 hipotecario + 2 leasing)", len(result.Offers)),
		)
	}

	return result, nil
}

// extractBBVARates splits the flattened text at the leasing marker and
// matches the per-segment rate rows of each section
func extractBBVARates(text string) ([]extractedRate, []string) {
	var warnings []string

	hipotecario, leasing := text, ""

	if idx := strings.Index(text, bbvaLeasingMarker); idx != -1 {
		hipotecario, leasing = text[:idx], text[idx:]
	} else {
		warnings = append(warnings, "could not find 'Leasing Habitacional' section")
	}

	var out []extractedRate

	for _, m := range bbvaCOPRowRegex.FindAllStringSubmatch(hipotecario, -1) {
		ex, err := bbvaCOPRate(m, types.ProductHipotecario)
		if err != nil {
			warnings = append(warnings, err.Error())

			continue
		}

		out = append(out, ex)
	}

	for _, m := range bbvaUVRRowRegex.FindAllStringSubmatch(hipotecario, -1) {
		segment := segmentFromLabel(m[1])

		mv, errMV := ParseLocaleNumber(m[2])
		ea, errEA := ParseLocaleNumber(m[3])

		if errMV != nil || errEA != nil {
			warnings = append(warnings, fmt.Sprintf("unable to parse UVR row %q", m[0]))

			continue
		}

		out = append(out, extractedRate{
			product:  types.ProductHipotecario,
			currency: types.CurrencyUVR,
			segment:  segment,
			rate: types.Rate{
				Kind:         types.RateUVRSpread,
				SpreadEAFrom: ea,
				SpreadMVFrom: mv,
			},
			discount: bbvaDiscount(types.CurrencyUVR, segment),
			excerpt:  strings.TrimSpace(m[0]),
		})
	}

	for _, m := range bbvaCOPRowRegex.FindAllStringSubmatch(leasing, -1) {
		ex, err := bbvaCOPRate(m, types.ProductLeasing)
		if err != nil {
			warnings = append(warnings, err.Error())

			continue
		}

		out = append(out, ex)
	}

	if len(out) == 0 {
		warnings = append(warnings, "no rate rows matched, pdf structure may have changed")
	}

	return out, warnings
}

func bbvaCOPRate(match []string, product types.ProductType) (extractedRate, error) {
	segment := segmentFromLabel(match[1])

	mv, errMV := ParseLocaleNumber(match[2])
	ea, errEA := ParseLocaleNumber(match[3])

	if errMV != nil || errEA != nil {
		return extractedRate{}, fmt.Errorf("unable to parse pesos row %q", match[0])
	}

	ex := extractedRate{
		product:  product,
		currency: types.CurrencyCOP,
		segment:  segment,
		rate: types.Rate{
			Kind:          types.RateCOPFixed,
			EAPercentFrom: ea,
			MVPercentFrom: mv,
		},
		excerpt: strings.TrimSpace(match[0]),
	}

	// The payroll benefit applies to the hipotecario lines only
	if product == types.ProductHipotecario {
		ex.discount = bbvaDiscount(types.CurrencyCOP, segment)
	}

	return ex, nil
}

func bbvaDiscount(currency types.CurrencyIndex, segment types.Segment) *types.PayrollDiscount {
	bps, ok := bbvaPayrollBPS[currency][segment]
	if !ok {
		return nil
	}

	return &types.PayrollDiscount{
		Type:      types.DiscountBPSOff,
		Value:     bps,
		AppliesTo: "RATE",
		Note:      "Tasa preferencial para clientes con nómina BBVA",
	}
}
