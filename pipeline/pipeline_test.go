package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/parser"
	"github.com/mejor-tasa/tasas/snapshot/mock"
	"github.com/mejor-tasa/tasas/types"
)

// testOffer builds a fully valid offer for the given bank and rate
func testOffer(bankID banks.ID, segment types.Segment, eaFrom float64) types.Offer {
	rate := types.Rate{
		Kind:          types.RateCOPFixed,
		EAPercentFrom: eaFrom,
	}

	return types.Offer{
		ID:            parser.GenerateOfferID(bankID, types.ProductHipotecario, types.CurrencyCOP, segment, types.ChannelUnspecified, eaFrom),
		BankID:        bankID,
		BankName:      banks.Name(bankID),
		ProductType:   types.ProductHipotecario,
		CurrencyIndex: types.CurrencyCOP,
		Segment:       segment,
		Channel:       types.ChannelUnspecified,
		Rate:          rate,
		Source: types.Source{
			URL:         banks.URL(bankID),
			SourceType:  types.SourceHTML,
			RetrievedAt: time.Now().UTC(),
			Extraction: types.ExtractionInfo{
				Method:  types.ExtractionCSSSelector,
				Locator: "table",
			},
		},
	}
}

func successParser(bankID banks.ID, offers ...types.Offer) *mockParser {
	return &mockParser{
		bankIDFn: func() banks.ID {
			return bankID
		},
		parseFn: func(_ context.Context) (*types.BankParseResult, error) {
			return &types.BankParseResult{
				BankID:      bankID,
				Offers:      offers,
				Warnings:    []string{},
				RawTextHash: "aa",
			}, nil
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("aggregates offers in registration order", func(t *testing.T) {
		t.Parallel()

		var (
			offerA = testOffer(banks.Bancolombia, types.SegmentVIS, 12.0)
			offerB = testOffer(banks.BBVA, types.SegmentVIS, 9.77)

			savedDataset  *types.OffersDataset
			savedRankings *types.Rankings

			store = &mock.Store{
				SaveDatasetFn: func(_ context.Context, dataset *types.OffersDataset) error {
					savedDataset = dataset

					return nil
				},
				SaveRankingsFn: func(_ context.Context, rankings *types.Rankings) error {
					savedRankings = rankings

					return nil
				},
			}
		)

		// Bancolombia registers first, so its offers aggregate first even
		// though BBVA has the lower rate
		p := New(
			[]parser.Parser{
				successParser(banks.Bancolombia, offerA),
				successParser(banks.BBVA, offerB),
			},
			store,
		)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, report)

		require.Len(t, report.Dataset.Offers, 2)
		assert.Equal(t, offerA.ID, report.Dataset.Offers[0].ID)
		assert.Equal(t, offerB.ID, report.Dataset.Offers[1].ID)

		assert.Empty(t, report.Warnings)

		// Both snapshots were persisted
		require.NotNil(t, savedDataset)
		require.NotNil(t, savedRankings)

		entries := savedRankings.Scenarios[types.ScenarioCOPVISHipotecario]
		require.Len(t, entries, 2)
		assert.Equal(t, offerB.ID, entries[0].OfferID)
	})

	t.Run("parser failure degrades to warning", func(t *testing.T) {
		t.Parallel()

		var (
			offer = testOffer(banks.BBVA, types.SegmentNoVIS, 11.72)

			failing = &mockParser{
				bankIDFn: func() banks.ID {
					return banks.Bancolombia
				},
				parseFn: func(_ context.Context) (*types.BankParseResult, error) {
					return nil, errors.New("fetch exhausted")
				},
			}
		)

		p := New(
			[]parser.Parser{
				failing,
				successParser(banks.BBVA, offer),
			},
			&mock.Store{},
		)

		report, err := p.Run(context.Background())
		require.NoError(t, err)

		require.Len(t, report.Dataset.Offers, 1)
		assert.Equal(t, offer.ID, report.Dataset.Offers[0].ID)

		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "[bancolombia]")
		assert.Contains(t, report.Warnings[0], "parse failed")
	})

	t.Run("all parsers failing still completes", func(t *testing.T) {
		t.Parallel()

		var (
			saved bool

			store = &mock.Store{
				SaveDatasetFn: func(_ context.Context, dataset *types.OffersDataset) error {
					saved = true

					assert.NotNil(t, dataset.Offers)
					assert.Empty(t, dataset.Offers)

					return nil
				},
			}

			failing = func(bankID banks.ID) *mockParser {
				return &mockParser{
					bankIDFn: func() banks.ID {
						return bankID
					},
					parseFn: func(_ context.Context) (*types.BankParseResult, error) {
						return nil, errors.New("fetch exhausted")
					},
				}
			}
		)

		p := New(
			[]parser.Parser{
				failing(banks.Bancolombia),
				failing(banks.BBVA),
			},
			store,
		)

		report, err := p.Run(context.Background())
		require.NoError(t, err)

		assert.True(t, saved)
		assert.Empty(t, report.Dataset.Offers)
		assert.Len(t, report.Warnings, 2)
		assert.Empty(t, report.Rankings.Scenarios)
	})

	t.Run("bank warnings are prefixed", func(t *testing.T) {
		t.Parallel()

		warning := &mockParser{
			bankIDFn: func() banks.ID {
				return banks.Itau
			},
			parseFn: func(_ context.Context) (*types.BankParseResult, error) {
				return &types.BankParseResult{
					BankID:      banks.Itau,
					Offers:      []types.Offer{},
					Warnings:    []string{"could not find rate"},
					RawTextHash: "aa",
				}, nil
			},
		}

		p := New([]parser.Parser{warning}, &mock.Store{})

		report, err := p.Run(context.Background())
		require.NoError(t, err)

		require.Len(t, report.Warnings, 1)
		assert.Equal(t, "[itau] could not find rate", report.Warnings[0])
	})

	t.Run("invalid offer fails the run", func(t *testing.T) {
		t.Parallel()

		invalid := testOffer(banks.Bancolombia, types.SegmentVIS, 12.0)
		invalid.ID = "short"

		p := New(
			[]parser.Parser{successParser(banks.Bancolombia, invalid)},
			&mock.Store{},
		)

		_, err := p.Run(context.Background())

		assert.ErrorIs(t, err, types.ErrInvalidOfferID)
	})

	t.Run("dataset save error is fatal", func(t *testing.T) {
		t.Parallel()

		saveErr := errors.New("disk full")

		store := &mock.Store{
			SaveDatasetFn: func(_ context.Context, _ *types.OffersDataset) error {
				return saveErr
			},
		}

		p := New(
			[]parser.Parser{successParser(banks.Bancolombia)},
			store,
		)

		_, err := p.Run(context.Background())

		assert.ErrorIs(t, err, saveErr)
	})

	t.Run("rankings save error is fatal", func(t *testing.T) {
		t.Parallel()

		saveErr := errors.New("disk full")

		store := &mock.Store{
			SaveRankingsFn: func(_ context.Context, _ *types.Rankings) error {
				return saveErr
			},
		}

		p := New(
			[]parser.Parser{successParser(banks.Bancolombia)},
			store,
		)

		_, err := p.Run(context.Background())

		assert.ErrorIs(t, err, saveErr)
	})
}
