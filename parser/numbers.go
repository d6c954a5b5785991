package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var ErrNoNumber = errors.New("no numeric value recognized")

var (
	uvrLeadRegex  = regexp.MustCompile(`(?i)UVR\s*\+\s*([\d.,]+)\s*%?`)
	uvrTrailRegex = regexp.MustCompile(`(?i)([\d.,]+)\s*%?\s*\+\s*UVR`)
	eaMarkerRegex = regexp.MustCompile(`(?i)E\.?\s*A\.?`)
	desdeRegex    = regexp.MustCompile(`(?i)desde`)
)

// ParseLocaleNumber converts a locale-formatted numeric string into a float.
// Colombian sources mix two conventions: "1.234,56" (dot thousands, comma
// decimal) and "12.50" (dot decimal). A comma marks the Colombian form;
// without one the string parses as-is. Whitespace and % are stripped first
func ParseLocaleNumber(text string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '%' {
			return -1
		}

		return r
	}, text)

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w in %q", ErrNoNumber, text)
	}

	return value, nil
}

// ParseIndexSpread extracts the spread magnitude from expressions like
// "UVR + 6,50%" or "6,50% + UVR"
func ParseIndexSpread(text string) (float64, error) {
	for _, pattern := range []*regexp.Regexp{uvrLeadRegex, uvrTrailRegex} {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		return ParseLocaleNumber(match[1])
	}

	return 0, fmt.Errorf("%w: no UVR spread in %q", ErrNoNumber, text)
}

// ParseAnnualPercent extracts an effective-annual percentage, tolerating
// "E.A." and "Desde" markers around the figure
func ParseAnnualPercent(text string) (float64, error) {
	cleaned := eaMarkerRegex.ReplaceAllString(text, "")
	cleaned = desdeRegex.ReplaceAllString(cleaned, "")

	return ParseLocaleNumber(cleaned)
}
