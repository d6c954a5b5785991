package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/types"
)

// makeOffer builds a minimal offer for classification tests
func makeOffer(
	id string,
	bankID banks.ID,
	product types.ProductType,
	currency types.CurrencyIndex,
	segment types.Segment,
	channel types.Channel,
	rateFrom float64,
) types.Offer {
	rate := types.Rate{
		Kind:          types.RateCOPFixed,
		EAPercentFrom: rateFrom,
	}

	if currency == types.CurrencyUVR {
		rate = types.Rate{
			Kind:         types.RateUVRSpread,
			SpreadEAFrom: rateFrom,
		}
	}

	return types.Offer{
		ID:            id,
		BankID:        bankID,
		BankName:      banks.Name(bankID),
		ProductType:   product,
		CurrencyIndex: currency,
		Segment:       segment,
		Channel:       channel,
		Rate:          rate,
	}
}

func withPayroll(offer types.Offer) types.Offer {
	offer.Conditions.PayrollDiscount = &types.PayrollDiscount{
		Type:      types.DiscountPercentOff,
		Value:     1.0,
		AppliesTo: "RATE",
	}

	return offer
}

func TestRanking_ComputeRankings(t *testing.T) {
	t.Parallel()

	t.Run("lowest rate wins", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			makeOffer("offer-a", banks.Bancolombia, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 12.0),
			makeOffer("offer-b", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 11.5),
			makeOffer("offer-c", banks.AVVillas, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 14.2),
		}

		rankings := ComputeRankings(offers)

		require.NotNil(t, rankings)
		assert.False(t, rankings.GeneratedAt.IsZero())

		entries, ok := rankings.Scenarios[types.ScenarioCOPVISHipotecario]
		require.True(t, ok)
		require.Len(t, entries, 3)

		assert.Equal(t, "offer-b", entries[0].OfferID)
		assert.Equal(t, 1, entries[0].Position)
		assert.Equal(t, types.MetricEAPercent, entries[0].Metric.Kind)
		assert.InDelta(t, 11.5, entries[0].Metric.Value, 0.0001)

		assert.Equal(t, "offer-a", entries[1].OfferID)
		assert.Equal(t, 2, entries[1].Position)

		assert.Equal(t, "offer-c", entries[2].OfferID)
		assert.Equal(t, 3, entries[2].Position)
	})

	t.Run("currencies never mix", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			makeOffer("offer-uvr", banks.Bancolombia, types.ProductHipotecario,
				types.CurrencyUVR, types.SegmentVIS, types.ChannelUnspecified, 6.5),
			makeOffer("offer-cop", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 9.77),
		}

		rankings := ComputeRankings(offers)

		uvrEntries := rankings.Scenarios[types.ScenarioUVRVISHipotecario]
		require.Len(t, uvrEntries, 1)
		assert.Equal(t, "offer-uvr", uvrEntries[0].OfferID)
		assert.Equal(t, types.MetricUVRSpreadEA, uvrEntries[0].Metric.Kind)

		copEntries := rankings.Scenarios[types.ScenarioCOPVISHipotecario]
		require.Len(t, copEntries, 1)
		assert.Equal(t, "offer-cop", copEntries[0].OfferID)
		assert.Equal(t, types.MetricEAPercent, copEntries[0].Metric.Kind)
	})

	t.Run("payroll scenarios require a discount", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			withPayroll(makeOffer("offer-payroll", banks.Bancolombia, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 12.0)),
			makeOffer("offer-plain", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 11.5),
		}

		rankings := ComputeRankings(offers)

		payrollEntries := rankings.Scenarios[types.ScenarioCOPVISPayroll]
		require.Len(t, payrollEntries, 1)
		assert.Equal(t, "offer-payroll", payrollEntries[0].OfferID)

		// The plain offer still wins the unconditional scenario
		openEntries := rankings.Scenarios[types.ScenarioCOPVISHipotecario]
		require.Len(t, openEntries, 2)
		assert.Equal(t, "offer-plain", openEntries[0].OfferID)
	})

	t.Run("digital scenario excludes leasing", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			makeOffer("offer-digital", banks.AVVillas, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentNoVIS, types.ChannelDigital, 14.5),
			makeOffer("offer-digital-leasing", banks.AVVillas, types.ProductLeasing,
				types.CurrencyCOP, types.SegmentUnknown, types.ChannelDigital, 11.0),
			makeOffer("offer-branch", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentNoVIS, types.ChannelUnspecified, 11.72),
		}

		rankings := ComputeRankings(offers)

		entries := rankings.Scenarios[types.ScenarioDigitalHipotecario]
		require.Len(t, entries, 1)
		assert.Equal(t, "offer-digital", entries[0].OfferID)
	})

	t.Run("leasing excluded from hipotecario scenarios", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			makeOffer("offer-leasing", banks.BancoPopular, types.ProductLeasing,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 10.0),
		}

		rankings := ComputeRankings(offers)

		_, ok := rankings.Scenarios[types.ScenarioCOPVISHipotecario]
		assert.False(t, ok)
	})

	t.Run("empty scenarios are absent", func(t *testing.T) {
		t.Parallel()

		rankings := ComputeRankings(nil)

		require.NotNil(t, rankings)
		assert.Empty(t, rankings.Scenarios)
	})

	t.Run("top three capped", func(t *testing.T) {
		t.Parallel()

		offers := make([]types.Offer, 0, 5)

		for i := range 5 {
			offers = append(offers, makeOffer(
				fmt.Sprintf("offer-%d", i),
				banks.Bancolombia,
				types.ProductHipotecario,
				types.CurrencyCOP,
				types.SegmentNoVIS,
				types.ChannelUnspecified,
				15.0-float64(i),
			))
		}

		rankings := ComputeRankings(offers)

		entries := rankings.Scenarios[types.ScenarioCOPNoVISHipotecario]
		require.Len(t, entries, 3)

		// Rates descend with the index, so the last offers rank first
		assert.Equal(t, "offer-4", entries[0].OfferID)
		assert.Equal(t, "offer-3", entries[1].OfferID)
		assert.Equal(t, "offer-2", entries[2].OfferID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			makeOffer("offer-first", banks.Bancolombia, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 12.0),
			makeOffer("offer-second", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 12.0),
		}

		rankings := ComputeRankings(offers)

		entries := rankings.Scenarios[types.ScenarioCOPVISHipotecario]
		require.Len(t, entries, 2)

		assert.Equal(t, "offer-first", entries[0].OfferID)
		assert.Equal(t, "offer-second", entries[1].OfferID)
	})

	t.Run("result passes validation", func(t *testing.T) {
		t.Parallel()

		offers := []types.Offer{
			withPayroll(makeOffer("offer-a", banks.Bancolombia, types.ProductHipotecario,
				types.CurrencyUVR, types.SegmentVIS, types.ChannelUnspecified, 6.5)),
			makeOffer("offer-b", banks.BBVA, types.ProductHipotecario,
				types.CurrencyCOP, types.SegmentNoVIS, types.ChannelUnspecified, 11.72),
		}

		rankings := ComputeRankings(offers)

		assert.NoError(t, rankings.Validate())
	})
}

func TestRanking_FilterMatches(t *testing.T) {
	t.Parallel()

	offer := makeOffer("offer-x", banks.BBVA, types.ProductHipotecario,
		types.CurrencyCOP, types.SegmentVIS, types.ChannelUnspecified, 9.77)

	testTable := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{"empty filter matches", Filter{}, true},
		{"product match", Filter{ProductType: types.ProductHipotecario}, true},
		{"product mismatch", Filter{ProductType: types.ProductLeasing}, false},
		{"currency mismatch", Filter{CurrencyIndex: types.CurrencyUVR}, false},
		{"segment mismatch", Filter{Segment: types.SegmentNoVIS}, false},
		{"channel mismatch", Filter{Channel: types.ChannelDigital}, false},
		{"payroll required", Filter{PayrollDiscount: true}, false},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, testCase.filter.Matches(offer))
		})
	}
}
