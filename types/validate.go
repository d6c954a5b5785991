package types

import (
	"errors"
	"fmt"

	"github.com/mejor-tasa/tasas/banks"
)

var (
	ErrInvalidOfferID     = errors.New("invalid offer id")
	ErrUnknownBank        = errors.New("unknown bank id")
	ErrInvalidProductType = errors.New("invalid product type")
	ErrInvalidCurrency    = errors.New("invalid currency index")
	ErrInvalidSegment     = errors.New("invalid segment")
	ErrInvalidChannel     = errors.New("invalid channel")
	ErrInvalidRate        = errors.New("invalid rate")
	ErrInvalidDiscount    = errors.New("invalid payroll discount")
	ErrInvalidSource      = errors.New("invalid offer source")
	ErrMissingTimestamp   = errors.New("missing generated_at timestamp")
	ErrInvalidScenario    = errors.New("invalid scenario ranking")
)

const offerIDLen = 16

// Validate checks the rate's per-kind field requirements and
// range ordering
func (r Rate) Validate() error {
	switch r.Kind {
	case RateCOPFixed:
		if r.EAPercentFrom <= 0 {
			return fmt.Errorf("%w: COP_FIXED requires positive ea_percent_from", ErrInvalidRate)
		}

		if r.SpreadEAFrom != 0 || r.SpreadEATo != 0 || r.SpreadMVFrom != 0 || r.SpreadMVTo != 0 {
			return fmt.Errorf("%w: COP_FIXED carries spread fields", ErrInvalidRate)
		}

		if r.EAPercentTo != 0 && r.EAPercentTo < r.EAPercentFrom {
			return fmt.Errorf("%w: ea_percent_to below ea_percent_from", ErrInvalidRate)
		}

		if r.MVPercentTo != 0 && r.MVPercentTo < r.MVPercentFrom {
			return fmt.Errorf("%w: mv_percent_to below mv_percent_from", ErrInvalidRate)
		}
	case RateUVRSpread:
		if r.SpreadEAFrom < 0 {
			return fmt.Errorf("%w: UVR_SPREAD requires non-negative spread_ea_from", ErrInvalidRate)
		}

		if r.EAPercentFrom != 0 || r.EAPercentTo != 0 || r.MVPercentFrom != 0 || r.MVPercentTo != 0 {
			return fmt.Errorf("%w: UVR_SPREAD carries ea fields", ErrInvalidRate)
		}

		if r.SpreadEATo != 0 && r.SpreadEATo < r.SpreadEAFrom {
			return fmt.Errorf("%w: spread_ea_to below spread_ea_from", ErrInvalidRate)
		}

		if r.SpreadMVTo != 0 && r.SpreadMVTo < r.SpreadMVFrom {
			return fmt.Errorf("%w: spread_mv_to below spread_mv_from", ErrInvalidRate)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRate, r.Kind)
	}

	return nil
}

// Metric returns the comparable ranking metric for the rate
func (r Rate) Metric() RankingMetric {
	if r.Kind == RateUVRSpread {
		return RankingMetric{
			Kind:  MetricUVRSpreadEA,
			Value: r.SpreadEAFrom,
		}
	}

	return RankingMetric{
		Kind:  MetricEAPercent,
		Value: r.EAPercentFrom,
	}
}

// Validate checks the discount invariants
func (d PayrollDiscount) Validate() error {
	if d.Type != DiscountBPSOff && d.Type != DiscountPercentOff {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidDiscount, d.Type)
	}

	if d.Value <= 0 {
		return fmt.Errorf("%w: non-positive value", ErrInvalidDiscount)
	}

	if d.AppliesTo != "RATE" {
		return fmt.Errorf("%w: applies_to must be RATE", ErrInvalidDiscount)
	}

	return nil
}

// Validate checks the provenance record
func (s Source) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("%w: missing url", ErrInvalidSource)
	}

	if s.SourceType != SourceHTML && s.SourceType != SourcePDF {
		return fmt.Errorf("%w: unknown source type %q", ErrInvalidSource, s.SourceType)
	}

	if s.RetrievedAt.IsZero() {
		return fmt.Errorf("%w: missing retrieved_at", ErrInvalidSource)
	}

	if s.Extraction.Method != ExtractionCSSSelector && s.Extraction.Method != ExtractionRegex {
		return fmt.Errorf("%w: unknown extraction method %q", ErrInvalidSource, s.Extraction.Method)
	}

	if s.Extraction.Locator == "" {
		return fmt.Errorf("%w: missing extraction locator", ErrInvalidSource)
	}

	return nil
}

// Validate checks the full offer shape
func (o Offer) Validate() error {
	if len(o.ID) != offerIDLen {
		return fmt.Errorf("%w: %q", ErrInvalidOfferID, o.ID)
	}

	if !banks.Known(o.BankID) {
		return fmt.Errorf("%w: %q", ErrUnknownBank, o.BankID)
	}

	if o.ProductType != ProductHipotecario && o.ProductType != ProductLeasing {
		return fmt.Errorf("%w: %q", ErrInvalidProductType, o.ProductType)
	}

	if o.CurrencyIndex != CurrencyCOP && o.CurrencyIndex != CurrencyUVR {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, o.CurrencyIndex)
	}

	if o.Segment != SegmentVIS && o.Segment != SegmentNoVIS && o.Segment != SegmentUnknown {
		return fmt.Errorf("%w: %q", ErrInvalidSegment, o.Segment)
	}

	if o.Channel != ChannelDigital && o.Channel != ChannelBranch && o.Channel != ChannelUnspecified {
		return fmt.Errorf("%w: %q", ErrInvalidChannel, o.Channel)
	}

	if err := o.Rate.Validate(); err != nil {
		return err
	}

	if o.Conditions.PayrollDiscount != nil {
		if err := o.Conditions.PayrollDiscount.Validate(); err != nil {
			return err
		}
	}

	return o.Source.Validate()
}

// Validate checks the aggregated dataset before it is persisted
func (d OffersDataset) Validate() error {
	if d.GeneratedAt.IsZero() {
		return ErrMissingTimestamp
	}

	for i, offer := range d.Offers {
		if err := offer.Validate(); err != nil {
			return fmt.Errorf("offer %d (%s): %w", i, offer.BankID, err)
		}
	}

	return nil
}

// Validate checks the rankings before they are persisted
func (r Rankings) Validate() error {
	if r.GeneratedAt.IsZero() {
		return ErrMissingTimestamp
	}

	for key, ranking := range r.Scenarios {
		if len(ranking) == 0 {
			return fmt.Errorf("%w: %s has no entries", ErrInvalidScenario, key)
		}

		if len(ranking) > 3 {
			return fmt.Errorf("%w: %s has more than 3 entries", ErrInvalidScenario, key)
		}

		for i, entry := range ranking {
			if entry.Position != i+1 {
				return fmt.Errorf("%w: %s entry %d has position %d", ErrInvalidScenario, key, i, entry.Position)
			}

			if entry.OfferID == "" {
				return fmt.Errorf("%w: %s entry %d missing offer id", ErrInvalidScenario, key, i)
			}

			if entry.Metric.Kind != MetricEAPercent && entry.Metric.Kind != MetricUVRSpreadEA {
				return fmt.Errorf("%w: %s entry %d has unknown metric kind", ErrInvalidScenario, key, i)
			}
		}
	}

	return nil
}
