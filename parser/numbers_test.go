package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumbers_ParseLocaleNumber(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			"colombian thousands and decimal comma",
			"1.234,56",
			1234.56,
		},
		{
			"decimal comma",
			"12,50",
			12.5,
		},
		{
			"plain decimal dot",
			"12.50",
			12.5,
		},
		{
			"percent suffix",
			"11,62%",
			11.62,
		},
		{
			"surrounding whitespace",
			"  9,77 % ",
			9.77,
		},
		{
			"integer",
			"12",
			12,
		},
		{
			"spaced digits",
			"1 1 , 62",
			11.62,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			value, err := ParseLocaleNumber(testCase.input)

			require.NoError(t, err)
			assert.InDelta(t, testCase.expected, value, 0.0001)
		})
	}

	t.Run("no numeric value", func(t *testing.T) {
		t.Parallel()

		_, err := ParseLocaleNumber("N/A")

		assert.ErrorIs(t, err, ErrNoNumber)
	})

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()

		_, err := ParseLocaleNumber("")

		assert.ErrorIs(t, err, ErrNoNumber)
	})
}

func TestNumbers_ParseIndexSpread(t *testing.T) {
	t.Parallel()

	t.Run("index leading", func(t *testing.T) {
		t.Parallel()

		value, err := ParseIndexSpread("UVR + 6,50%")

		require.NoError(t, err)
		assert.InDelta(t, 6.5, value, 0.0001)
	})

	t.Run("index trailing", func(t *testing.T) {
		t.Parallel()

		value, err := ParseIndexSpread("6,50% + UVR")

		require.NoError(t, err)
		assert.InDelta(t, 6.5, value, 0.0001)
	})

	t.Run("lowercase index", func(t *testing.T) {
		t.Parallel()

		value, err := ParseIndexSpread("uvr + 5,52% M.V.")

		require.NoError(t, err)
		assert.InDelta(t, 5.52, value, 0.0001)
	})

	t.Run("no spread present", func(t *testing.T) {
		t.Parallel()

		_, err := ParseIndexSpread("12,50% E.A.")

		assert.ErrorIs(t, err, ErrNoNumber)
	})
}

func TestNumbers_ParseAnnualPercent(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected float64
	}{
		{
			"bare percentage",
			"17,05%",
			17.05,
		},
		{
			"effective annual marker",
			"12,50% E.A.",
			12.5,
		},
		{
			"marker without dots",
			"12,50% EA",
			12.5,
		},
		{
			"from marker",
			"Desde 12,80%",
			12.8,
		},
		{
			"both markers",
			"Desde 12,80% E.A.",
			12.8,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			value, err := ParseAnnualPercent(testCase.input)

			require.NoError(t, err)
			assert.InDelta(t, testCase.expected, value, 0.0001)
		})
	}

	t.Run("no numeric value", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAnnualPercent("Consultar")

		assert.ErrorIs(t, err, ErrNoNumber)
	})
}

func TestNumbers_SegmentFromLabel(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		label    string
		expected string
	}{
		{"vis label", "Vivienda VIS", "VIS"},
		{"no vis label", "Vivienda No VIS", "NO_VIS"},
		{"no vis wins over vis substring", "No VIS Pesos", "NO_VIS"},
		{"unrelated label", "Leasing Habitacional", "UNKNOWN"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, string(segmentFromLabel(testCase.label)))
		})
	}
}
