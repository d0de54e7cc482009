package yield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

func TestCompound(t *testing.T) {
	t.Run("Annual", func(t *testing.T) {
		v, err := Compound(1000, 10, common.Annually, 2)
		require.NoError(t, err)
		assert.InDelta(t, 1210.0, v, 1e-9)
	})

	t.Run("Monthly", func(t *testing.T) {
		v, err := Compound(1000, 12, common.Monthly, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1000*math.Pow(1.01, 12), v, 1e-9)
	})

	t.Run("ZeroRate", func(t *testing.T) {
		v, err := Compound(500, 0, common.Daily, 3)
		require.NoError(t, err)
		assert.Equal(t, 500.0, v)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Compound(1000, 5, 0, 1)
		assert.ErrorIs(t, err, icommon.ErrInvalidInput)

		_, err = Compound(1000, 5, common.Monthly, 0)
		assert.ErrorIs(t, err, icommon.ErrInvalidInput)
	})
}

func TestSeededNoise(t *testing.T) {
	a := NewSeededNoise(42)
	b := NewSeededNoise(42)
	c := NewSeededNoise(43)

	same := true
	for i := 0; i < 100; i++ {
		va, vb, vc := a.Float64(), b.Float64(), c.Float64()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
		if va != vc {
			same = false
		}
	}
	assert.False(t, same, "different seeds should give different sequences")
}
