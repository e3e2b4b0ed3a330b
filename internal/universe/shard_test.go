package universe

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssign(t *testing.T) {
	tickers := []string{"AAPL", "AMZN", "GOOG", "META", "MSFT", "NVDA", "TSLA"}

	tests := []struct {
		name  string
		total int
		index int
		want  []string
	}{
		{"single shard gets everything", 1, 0, tickers},
		{"two shards even", 2, 0, []string{"AAPL", "GOOG", "MSFT", "TSLA"}},
		{"two shards odd", 2, 1, []string{"AMZN", "META", "NVDA"}},
		{"three shards middle", 3, 1, []string{"AMZN", "MSFT"}},
		{"more shards than tickers", 10, 8, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assign(tickers, tt.total, tt.index)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestAssign_Partition checks the shard invariant for several shard counts:
// the union of all shards is the input, disjoint and without duplicates.
func TestAssign_Partition(t *testing.T) {
	tickers := make([]string, 503)
	for i := range tickers {
		tickers[i] = fmt.Sprintf("T%03d", i)
	}
	sort.Strings(tickers)

	for total := 1; total <= 5; total++ {
		t.Run(fmt.Sprintf("total=%d", total), func(t *testing.T) {
			seen := make(map[string]int)
			var union []string

			for index := 0; index < total; index++ {
				shard := Assign(tickers, total, index)
				for _, s := range shard {
					seen[s]++
				}
				union = append(union, shard...)
			}

			require.Len(t, union, len(tickers))
			for s, n := range seen {
				assert.Equal(t, 1, n, "ticker %s assigned %d times", s, n)
			}
		})
	}
}

func TestAssign_DoesNotAliasInput(t *testing.T) {
	tickers := []string{"AAPL", "MSFT"}
	got := Assign(tickers, 1, 0)

	got[0] = "CHANGED"
	assert.Equal(t, "AAPL", tickers[0])
}
