package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/types"
)

const (
	avvillasLandingURL = "https://www.avvillas.com.co/credito-hipotecario"
	avvillasLabel      = "Tasas de Interés - Banco AV Villas"

	avvillasDigitalMarker = "Créditos Hipotecarios-Digital"
	avvillasLeasingMarker = "Leasing Habitacional"
)

var (
	// "VIS UVR UVR + 8,90% UVR + 10,05%" (the upper bound is optional)
	avvillasUVRRegex = regexp.MustCompile(
		`(?i)(No\s+VIS|VIS)\s+UVR\s+UVR\s*\+\s*([\d.,]+)\s*%(?:\s+UVR\s*\+\s*([\d.,]+)\s*%)?`)

	// "No VIS Pesos 15,00% 15,75%" (the upper bound is optional)
	avvillasCOPRegex = regexp.MustCompile(
		`(?i)(No\s+VIS|VIS)\s+Pesos\s+([\d.,]+)\s*%(?:\s+([\d.,]+)\s*%)?`)

	// "Leasing Habitacional UVR + 9,30%"
	avvillasLeasingRegex = regexp.MustCompile(
		`(?i)Leasing\s+Habitacional\s+UVR\s*\+\s*([\d.,]+)\s*%`)
)

// AVVillas extracts the bank's rates PDF. The PDF URL rotates with every
// update, so live mode first scrapes the landing page for the current
// "Tasas" link. The document has three sections: standard Créditos
// Hipotecarios, Leasing Habitacional, and a Créditos Hipotecarios-Digital
// section whose offers are bound to the digital channel
type AVVillas struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func NewAVVillas(cfg Config, fetcher fetch.Fetcher) *AVVillas {
	return &AVVillas{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

func (p *AVVillas) BankID() banks.ID {
	return banks.AVVillas
}

func (p *AVVillas) SourceURL() string {
	return avvillasLandingURL
}

func (p *AVVillas) Parse(ctx context.Context) (*types.BankParseResult, error) {
	content, sourceURL, err := p.pdfDocument(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.BankParseResult{
		BankID:      banks.AVVillas,
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

	extracted, warnings := extractAVVillasRates(text)
	result.Warnings = append(result.Warnings, warnings...)

	for _, ex := range extracted {
		result.Offers = append(result.Offers, newOffer(
			banks.AVVillas,
			ex.product,
			ex.currency,
			ex.segment,
			ex.channel,
			ex.rate,
			types.Conditions{},
			types.Source{
				URL:             sourceURL,
				SourceType:      types.SourcePDF,
				DocumentLabel:   avvillasLabel,
				RetrievedAt:     retrievedAt,
				TextFingerprint: result.RawTextHash,
				Extraction: types.ExtractionInfo{
					Method:  types.ExtractionRegex,
					Locator: "hipotecario_section",
					Excerpt: ex.excerpt,
				},
			},
		))
	}

	if len(result.Offers) < 8 {
		result.Warnings = append(
			result.Warnings,
			fmt.Sprintf("only extracted %d offers, expected 8 (standard + leasing + digital)", len(result.Offers)),
		)
	}

	return result, nil
}

// pdfDocument obtains the rates PDF. Fixture mode reads it directly;
// live mode discovers the rotating link on the landing page first
func (p *AVVillas) pdfDocument(ctx context.Context) ([]byte, string, error) {
	if p.cfg.UseFixtures {
		content, err := p.cfg.document(ctx, p.fetcher, banks.AVVillas, avvillasLandingURL, ".pdf")

		return content, avvillasLandingURL, err
	}

	landing, err := p.fetcher.Fetch(ctx, avvillasLandingURL)
	if err != nil {
		return nil, "", err
	}

	pdfURL, err := findAVVillasPDFLink(landing.Content)
	if err != nil {
		return nil, "", err
	}

	result, err := p.fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, "", err
	}

	return result.Content, pdfURL, nil
}

// findAVVillasPDFLink locates the current "Tasas" PDF link on the
// landing page and resolves it against the landing URL
func findAVVillasPDFLink(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("unable to parse landing page: %w", err)
	}

	var found string

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")

		lowered := strings.ToLower(href)
		if !strings.Contains(lowered, ".pdf") {
			return true
		}

		if !strings.Contains(lowered, "tasas") &&
			!strings.Contains(strings.ToLower(link.Text()), "tasas") {
			return true
		}

		found = href

		return false
	})

	if found == "" {
		return "", fmt.Errorf("no 'Tasas' pdf link on landing page")
	}

	base, err := url.Parse(avvillasLandingURL)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(found)
	if err != nil {
		return "", fmt.Errorf("invalid pdf link %q: %w", found, err)
	}

	return base.ResolveReference(ref).String(), nil
}

// extractAVVillasRates carves the flattened text into the standard,
// digital and leasing sections, then matches each section's rows
func extractAVVillasRates(text string) ([]extractedRate, []string) {
	var warnings []string

	var (
		digitalIdx = strings.Index(text, avvillasDigitalMarker)
		leasingIdx = strings.Index(text, avvillasLeasingMarker)
	)

	standard := text

	if digitalIdx == -1 {
		warnings = append(warnings, "could not find 'Créditos Hipotecarios-Digital' section")
	}

	if leasingIdx == -1 {
		warnings = append(warnings, "could not find 'Leasing Habitacional' section")
	}

	// Section layout: standard, then leasing, then digital
	end := len(text)
	if leasingIdx != -1 {
		end = leasingIdx
	} else if digitalIdx != -1 {
		end = digitalIdx
	}

	standard = text[:end]

	var out []extractedRate

	out = append(out, avvillasSectionRates(standard, types.ChannelUnspecified)...)

	if leasingIdx != -1 {
		if m := avvillasLeasingRegex.FindStringSubmatch(text[leasingIdx:]); m != nil {
			if spread, err := ParseLocaleNumber(m[1]); err == nil {
				out = append(out, extractedRate{
					product:  types.ProductLeasing,
					currency: types.CurrencyUVR,
					segment:  types.SegmentUnknown,
					channel:  types.ChannelUnspecified,
					rate: types.Rate{
						Kind:         types.RateUVRSpread,
						SpreadEAFrom: spread,
					},
					excerpt: strings.TrimSpace(m[0]),
				})
			}
		} else {
			warnings = append(warnings, "no leasing row matched")
		}
	}

	if digitalIdx != -1 {
		out = append(out, avvillasSectionRates(text[digitalIdx:], types.ChannelDigital)...)
	}

	if len(out) == 0 {
		warnings = append(warnings, "no rate rows matched, pdf structure may have changed")
	}

	return out, warnings
}

func avvillasSectionRates(section string, channel types.Channel) []extractedRate {
	var out []extractedRate

	for _, m := range avvillasUVRRegex.FindAllStringSubmatch(section, -1) {
		from, err := ParseLocaleNumber(m[2])
		if err != nil {
			continue
		}

		rate := types.Rate{
			Kind:         types.RateUVRSpread,
			SpreadEAFrom: from,
		}

		if m[3] != "" {
			if to, err := ParseLocaleNumber(m[3]); err == nil {
				rate.SpreadEATo = to
			}
		}

		out = append(out, extractedRate{
			product:  types.ProductHipotecario,
			currency: types.CurrencyUVR,
			segment:  segmentFromLabel(m[1]),
			channel:  channel,
			rate:     rate,
			excerpt:  strings.TrimSpace(m[0]),
		})
	}

	for _, m := range avvillasCOPRegex.FindAllStringSubmatch(section, -1) {
		from, err := ParseLocaleNumber(m[2])
		if err != nil {
			continue
		}

		rate := types.Rate{
			Kind:          types.RateCOPFixed,
			EAPercentFrom: from,
		}

		if m[3] != "" {
			if to, err := ParseLocaleNumber(m[3]); err == nil {
				rate.EAPercentTo = to
			}
		}

		out = append(out, extractedRate{
			product:  types.ProductHipotecario,
			currency: types.CurrencyCOP,
			segment:  segmentFromLabel(m[1]),
			channel:  channel,
			rate:     rate,
			excerpt:  strings.TrimSpace(m[0]),
		})
	}

	return out
}
