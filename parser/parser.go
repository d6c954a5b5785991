package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/fetch"
	"github.com/mejor-tasa/tasas/types"
)

// Parser extracts normalized offers from one bank's rate disclosure.
// A parser returns an error only for genuinely fatal conditions (fetch
// exhausted its retries, fixture unreadable); structural mismatches in the
// document surface as warnings on the result instead, and a zero-offer
// result is a valid outcome
type Parser interface {
	// BankID returns the catalog id of the covered bank
	BankID() banks.ID

	// SourceURL returns the URL of the bank's rate disclosure
	SourceURL() string

	// Parse fetches (or loads) the disclosure and extracts offers
	Parse(ctx context.Context) (*types.BankParseResult, error)
}

// Config selects between live fetching and local fixtures.
// Fixture mode is a first-class part of the parser contract, enabling
// deterministic network-free runs
type Config struct {
	FixturesDir string
	UseFixtures bool
}

// document obtains the raw source document, either from the configured
// fixture directory or through a live fetch
func (c Config) document(
	ctx context.Context,
	fetcher fetch.Fetcher,
	id banks.ID,
	url string,
	ext string,
) ([]byte, error) {
	if c.UseFixtures {
		path := filepath.Join(c.FixturesDir, id.String()+ext)

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read fixture: %w", err)
		}

		return content, nil
	}

	result, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return result.Content, nil
}

// newOffer assembles an offer, deriving its content-based id and
// stamping the catalog display name
func newOffer(
	id banks.ID,
	product types.ProductType,
	currency types.CurrencyIndex,
	segment types.Segment,
	channel types.Channel,
	rate types.Rate,
	conditions types.Conditions,
	source types.Source,
) types.Offer {
	return types.Offer{
		ID:            GenerateOfferID(id, product, currency, segment, channel, rate.From()),
		BankID:        id,
		BankName:      banks.Name(id),
		ProductType:   product,
		CurrencyIndex: currency,
		Segment:       segment,
		Channel:       channel,
		Rate:          rate,
		Conditions:    conditions,
		Source:        source,
	}
}

// extractedRate is a single pattern match pulled from a document,
// before offer assembly. Classification is baked into which pattern
// matched, not derived afterwards
type extractedRate struct {
	discount *types.PayrollDiscount
	product  types.ProductType
	currency types.CurrencyIndex
	segment  types.Segment
	channel  types.Channel
	excerpt  string
	rate     types.Rate
}

// segmentFromLabel maps a row label to the housing segment it covers.
// "No VIS" must win over the "VIS" substring it contains
func segmentFromLabel(label string) types.Segment {
	lowered := strings.ToLower(label)

	switch {
	case strings.Contains(lowered, "no vis"):
		return types.SegmentNoVIS
	case strings.Contains(lowered, "vis"):
		return types.SegmentVIS
	default:
		return types.SegmentUnknown
	}
}

// All returns every registered bank parser in catalog order.
// The order is load-bearing: downstream ranking breaks metric ties by
// the relative order of the aggregated offers
func All(cfg Config, fetcher fetch.Fetcher) []Parser {
	return []Parser{
		NewBancolombia(cfg, fetcher),
		NewBBVA(cfg, fetcher),
		NewScotiabank(cfg, fetcher),
		NewCajaSocial(cfg, fetcher),
		NewAVVillas(cfg, fetcher),
		NewItau(cfg, fetcher),
		NewBancoPopular(cfg, fetcher),
		NewBancoDeOccidente(cfg, fetcher),
	}
}
