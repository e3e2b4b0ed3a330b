package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trending builds a steady uptrend: close rises 1/bar with a fixed 2-point
// daily range.
func trending(n int) (highs, lows, closes []float64) {
	highs = make([]float64, n)
	lows = make([]float64, n)
	closes = make([]float64, n)
	for i := 0; i < n; i++ {
		c := 100.0 + float64(i)
		closes[i] = c
		highs[i] = c + 1
		lows[i] = c - 1
	}
	return highs, lows, closes
}

func TestATR(t *testing.T) {
	t.Run("constant range", func(t *testing.T) {
		highs, lows, closes := trending(40)

		// every true range is 2: high-low = 2 and |high-prevClose| = 2
		atr, err := ATR(highs, lows, closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, atr, 1e-9)
	})

	t.Run("too short", func(t *testing.T) {
		highs, lows, closes := trending(10)
		_, err := ATR(highs, lows, closes, 14)
		assert.Error(t, err)
	})
}

func TestADX(t *testing.T) {
	t.Run("strong uptrend", func(t *testing.T) {
		highs, lows, closes := trending(80)

		adx, err := ADX(highs, lows, closes, 14)
		require.NoError(t, err)
		// one-directional movement: DI- is zero, DX is 100 on every bar
		assert.Greater(t, adx, 90.0)
	})

	t.Run("strong downtrend", func(t *testing.T) {
		highs, lows, closes := trending(80)
		for i := range closes {
			closes[i] = 300 - closes[i]
			highs[i] = closes[i] + 1
			lows[i] = closes[i] - 1
		}

		adx, err := ADX(highs, lows, closes, 14)
		require.NoError(t, err)
		assert.Greater(t, adx, 90.0)
	})

	t.Run("flat market", func(t *testing.T) {
		n := 80
		highs := make([]float64, n)
		lows := make([]float64, n)
		closes := make([]float64, n)
		for i := 0; i < n; i++ {
			closes[i] = 100
			highs[i] = 101
			lows[i] = 99
		}

		adx, err := ADX(highs, lows, closes, 14)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, adx, 1e-9)
	})

	t.Run("too short", func(t *testing.T) {
		highs, lows, closes := trending(20)
		_, err := ADX(highs, lows, closes, 14)
		assert.Error(t, err)
	})
}
