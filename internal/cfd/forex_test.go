package cfd

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icommon "frizo/quant_calc/internal/common"
)

func TestPipValue(t *testing.T) {
	pip := decimal.RequireFromString("0.0001")

	t.Run("QuoteIsAccount", func(t *testing.T) {
		v, err := PipValue(decimal.NewFromInt(1), pip, decimal.RequireFromString("1.1"), QuoteIsAccount)
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.NewFromInt(10)))
	})

	t.Run("BaseIsAccount", func(t *testing.T) {
		v, err := PipValue(decimal.NewFromInt(1), decimal.RequireFromString("0.01"), decimal.NewFromInt(125), BaseIsAccount)
		require.NoError(t, err)
		assert.True(t, v.Equal(decimal.RequireFromString("8")))
	})

	t.Run("ZeroRate", func(t *testing.T) {
		_, err := PipValue(decimal.NewFromInt(1), pip, decimal.Zero, BaseIsAccount)
		assert.ErrorIs(t, err, icommon.ErrNumericDegenerate)
	})

	t.Run("ZeroLots", func(t *testing.T) {
		_, err := PipValue(decimal.Zero, pip, decimal.NewFromInt(1), QuoteIsAccount)
		assert.ErrorIs(t, err, icommon.ErrInvalidInput)
	})
}

func TestRollover(t *testing.T) {
	lots := decimal.NewFromInt(2)
	swap := decimal.RequireFromString("-1.5")

	v, err := Rollover(lots, swap, 3)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(-9)))

	// a full week carries two extra nights
	v, err = Rollover(lots, swap, 7)
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(-27)))

	_, err = Rollover(lots, swap, -1)
	assert.ErrorIs(t, err, icommon.ErrInvalidInput)
}
