package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcError(t *testing.T) {
	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput("options.Price", "spot", "must be positive, got %v", -1.0)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.False(t, errors.Is(err, ErrNumericDegenerate))
		assert.Equal(t, "options.Price: invalid input: spot must be positive, got -1", err.Error())

		var ce *CalcError
		assert.True(t, errors.As(err, &ce))
		assert.Equal(t, "spot", ce.Field)
	})

	t.Run("WrappedStillMatches", func(t *testing.T) {
		err := fmt.Errorf("cfd: %w", Degenerate("cfd.Calculate", "pip size is zero"))
		assert.True(t, errors.Is(err, ErrNumericDegenerate))
		assert.Contains(t, err.Error(), "pip size is zero")
	})

	t.Run("NonConvergence", func(t *testing.T) {
		err := NonConvergence("options.Solve", "stopped after %d iterations", 100)
		assert.True(t, errors.Is(err, ErrNonConvergence))
	})
}
