// Package ranking classifies offers into usage scenarios and selects the
// best candidates per scenario by their comparable rate metric.
package ranking

import (
	"sort"
	"time"

	"github.com/mejor-tasa/tasas/types"
)

const maxEntries = 3

// Filter is a conjunction of optional field-equality predicates.
// Empty fields match everything
type Filter struct {
	ProductType     types.ProductType
	CurrencyIndex   types.CurrencyIndex
	Segment         types.Segment
	Channel         types.Channel
	PayrollDiscount bool
}

// scenarioFilters is the fixed scenario table. Every scenario is
// constrained to a single currency index, so metrics within one scenario
// are always of the same kind and directly comparable. The payroll
// scenarios are partitioned per currency and segment for the same reason
var scenarioFilters = map[types.ScenarioKey]Filter{
	types.ScenarioUVRVISHipotecario: {
		ProductType:   types.ProductHipotecario,
		CurrencyIndex: types.CurrencyUVR,
		Segment:       types.SegmentVIS,
	},
	types.ScenarioUVRNoVISHipotecario: {
		ProductType:   types.ProductHipotecario,
		CurrencyIndex: types.CurrencyUVR,
		Segment:       types.SegmentNoVIS,
	},
	types.ScenarioCOPVISHipotecario: {
		ProductType:   types.ProductHipotecario,
		CurrencyIndex: types.CurrencyCOP,
		Segment:       types.SegmentVIS,
	},
	types.ScenarioCOPNoVISHipotecario: {
		ProductType:   types.ProductHipotecario,
		CurrencyIndex: types.CurrencyCOP,
		Segment:       types.SegmentNoVIS,
	},
	types.ScenarioUVRVISPayroll: {
		ProductType:     types.ProductHipotecario,
		CurrencyIndex:   types.CurrencyUVR,
		Segment:         types.SegmentVIS,
		PayrollDiscount: true,
	},
	types.ScenarioUVRNoVISPayroll: {
		ProductType:     types.ProductHipotecario,
		CurrencyIndex:   types.CurrencyUVR,
		Segment:         types.SegmentNoVIS,
		PayrollDiscount: true,
	},
	types.ScenarioCOPVISPayroll: {
		ProductType:     types.ProductHipotecario,
		CurrencyIndex:   types.CurrencyCOP,
		Segment:         types.SegmentVIS,
		PayrollDiscount: true,
	},
	types.ScenarioCOPNoVISPayroll: {
		ProductType:     types.ProductHipotecario,
		CurrencyIndex:   types.CurrencyCOP,
		Segment:         types.SegmentNoVIS,
		PayrollDiscount: true,
	},

	// Leasing never qualifies for the digital scenario, even when
	// offered through the digital channel
	types.ScenarioDigitalHipotecario: {
		ProductType: types.ProductHipotecario,
		Channel:     types.ChannelDigital,
	},
}

// Matches reports whether the offer satisfies every set predicate
func (f Filter) Matches(offer types.Offer) bool {
	if f.ProductType != "" && offer.ProductType != f.ProductType {
		return false
	}

	if f.CurrencyIndex != "" && offer.CurrencyIndex != f.CurrencyIndex {
		return false
	}

	if f.Segment != "" && offer.Segment != f.Segment {
		return false
	}

	if f.Channel != "" && offer.Channel != f.Channel {
		return false
	}

	if f.PayrollDiscount && offer.Conditions.PayrollDiscount == nil {
		return false
	}

	return true
}

// ComputeRankings classifies the given offers into scenarios and returns
// up to three top entries per scenario, ordered by ascending metric value
// (lower rate is better). Metric ties keep the offers' relative input
// order, which callers pin to parser registration order. Scenarios with
// no matching offers are absent from the result
func ComputeRankings(offers []types.Offer) *types.Rankings {
	rankings := &types.Rankings{
		GeneratedAt: time.Now().UTC(),
		Scenarios:   make(map[types.ScenarioKey]types.ScenarioRanking),
	}

	for key, filter := range scenarioFilters {
		top := topOffers(offers, filter)
		if len(top) == 0 {
			continue
		}

		rankings.Scenarios[key] = top
	}

	return rankings
}

func topOffers(offers []types.Offer, filter Filter) types.ScenarioRanking {
	matching := make([]types.Offer, 0, len(offers))

	for _, offer := range offers {
		if filter.Matches(offer) {
			matching = append(matching, offer)
		}
	}

	if len(matching) == 0 {
		return nil
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Rate.Metric().Value < matching[j].Rate.Metric().Value
	})

	if len(matching) > maxEntries {
		matching = matching[:maxEntries]
	}

	ranking := make(types.ScenarioRanking, 0, len(matching))

	for i, offer := range matching {
		ranking = append(ranking, types.RankedEntry{
			Position: i + 1,
			OfferID:  offer.ID,
			Metric:   offer.Rate.Metric(),
		})
	}

	return ranking
}
