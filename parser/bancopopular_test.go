package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/types"
)

func TestBancoPopular_Parse(t *testing.T) {
	t.Parallel()

	t.Run("fixture document", func(t *testing.T) {
		t.Parallel()

		p := NewBancoPopular(
			Config{
				FixturesDir: "testdata",
				UseFixtures: true,
			},
			nil,
		)

		result, err := p.Parse(context.Background())
		require.NoError(t, err)

		assert.Equal(t, banks.BancoPopular, result.BankID)
		assert.Empty(t, result.Warnings)

		require.Len(t, result.Offers, 2)

		hipotecario := result.Offers[0]
		assert.Equal(t, types.ProductHipotecario, hipotecario.ProductType)
		assert.Equal(t, types.CurrencyCOP, hipotecario.CurrencyIndex)
		assert.Equal(t, types.SegmentUnknown, hipotecario.Segment)
		assert.Equal(t, types.RateCOPFixed, hipotecario.Rate.Kind)
		assert.InDelta(t, 17.05, hipotecario.Rate.EAPercentFrom, 0.0001)
		assert.InDelta(t, 17.55, hipotecario.Rate.EAPercentTo, 0.0001)

		leasing := result.Offers[1]
		assert.Equal(t, types.ProductLeasing, leasing.ProductType)
		assert.InDelta(t, 16.55, leasing.Rate.EAPercentFrom, 0.0001)
		assert.InDelta(t, 17.05, leasing.Rate.EAPercentTo, 0.0001)

		for _, offer := range result.Offers {
			require.NoError(t, offer.Validate())

			assert.Nil(t, offer.Conditions.PayrollDiscount)
			assert.Equal(t, types.SourceHTML, offer.Source.SourceType)
		}
	})

	t.Run("missing section", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFixture(t, dir, "banco_popular.html", "<html><body><h1>Tasas</h1></body></html>")

		p := NewBancoPopular(
			Config{
				FixturesDir: dir,
				UseFixtures: true,
			},
			nil,
		)

		result, err := p.Parse(context.Background())
		require.NoError(t, err)

		assert.Empty(t, result.Offers)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("unknown product row", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFixture(t, dir, "banco_popular.html", `<html><body>
			<div id="table-rates-casaya">
				<table class="simple-table"><tbody>
					<tr><td>Tarjeta de Crédito</td><td>28,00%</td><td>28,00%</td></tr>
					<tr><td>Crédito Hipotecario</td><td>17,05%</td><td>17,55%</td></tr>
				</tbody></table>
			</div>
		</body></html>`)

		p := NewBancoPopular(
			Config{
				FixturesDir: dir,
				UseFixtures: true,
			},
			nil,
		)

		result, err := p.Parse(context.Background())
		require.NoError(t, err)

		require.Len(t, result.Offers, 1)
		assert.Equal(t, types.ProductHipotecario, result.Offers[0].ProductType)

		// The unknown row surfaces as a warning, and so does the
		// below-expected offer count
		assert.NotEmpty(t, result.Warnings)
	})
}
