package rank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

func writeTestArtifact(t *testing.T, dir string, artifact *contracts.WorkerArtifact) string {
	t.Helper()

	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(dir, fmt.Sprintf("raw-results-%d.json", artifact.JobIndex))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAggregator_Merge(t *testing.T) {
	dir := t.TempDir()

	p0 := writeTestArtifact(t, dir, &contracts.WorkerArtifact{
		Results: []contracts.FeatureRow{
			{Ticker: "AAPL", MACDHist: 1.2},
			{Ticker: "MSFT", MACDHist: 0.4},
		},
		AttemptedCount: 3,
		ProcessedCount: 2,
		Errors:         []string{"NVDA: data unavailable"},
		JobIndex:       0,
	})
	p1 := writeTestArtifact(t, dir, &contracts.WorkerArtifact{
		Results: []contracts.FeatureRow{
			{Ticker: "GOOG", MACDHist: -0.1},
		},
		AttemptedCount: 2,
		ProcessedCount: 1,
		Errors:         []string{"AMZN: insufficient data from yahoo (12 rows)"},
		JobIndex:       1,
	})

	agg := NewAggregator(logger.Nop()).Merge([]string{p0, p1})

	assert.Equal(t, 5, agg.Attempted)
	assert.Equal(t, 3, agg.Processed)
	assert.Len(t, agg.Rows, 3)

	// error strings carry their source artifact path
	require.Len(t, agg.Errors, 2)
	assert.Equal(t, p0+": NVDA: data unavailable", agg.Errors[0])
	assert.Equal(t, p1+": AMZN: insufficient data from yahoo (12 rows)", agg.Errors[1])
}

func TestAggregator_Merge_SkipsBadArtifacts(t *testing.T) {
	dir := t.TempDir()

	good := writeTestArtifact(t, dir, &contracts.WorkerArtifact{
		Results:        []contracts.FeatureRow{{Ticker: "AAPL"}},
		AttemptedCount: 1,
		ProcessedCount: 1,
	})

	malformed := filepath.Join(dir, "raw-results-broken.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{not json"), 0o644))

	missing := filepath.Join(dir, "raw-results-missing.json")

	agg := NewAggregator(logger.Nop()).Merge([]string{malformed, missing, good})

	assert.Equal(t, 1, agg.Attempted)
	assert.Equal(t, 1, agg.Processed)
	assert.Len(t, agg.Rows, 1)
	assert.Empty(t, agg.Errors)
}

func TestAggregator_Merge_EmptyManifest(t *testing.T) {
	agg := NewAggregator(logger.Nop()).Merge(nil)

	assert.Zero(t, agg.Attempted)
	assert.Zero(t, agg.Processed)
	assert.Empty(t, agg.Rows)
	assert.Empty(t, agg.Errors)
}
