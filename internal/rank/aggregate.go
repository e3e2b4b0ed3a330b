package rank

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wonny/sp500scan/internal/contracts"
	"github.com/wonny/sp500scan/pkg/logger"
)

// Aggregated is the transient merge of all discoverable worker artifacts.
type Aggregated struct {
	Rows      []contracts.FeatureRow
	Attempted int
	Processed int
	Errors    []string
}

// Aggregator merges worker artifacts into one dataset. Discovery is the
// caller's concern: the manifest of artifact paths is passed in explicitly.
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{logger: log}
}

// Merge reads every artifact in the manifest, summing counts and
// concatenating rows. Error strings are prefixed with their source artifact
// path. Unreadable or malformed artifacts are logged and skipped; a missing
// shard means reduced coverage, never a fatal aggregation error. The result
// is independent of manifest order for every downstream operation.
func (a *Aggregator) Merge(manifest []string) *Aggregated {
	agg := &Aggregated{
		Rows:   make([]contracts.FeatureRow, 0),
		Errors: make([]string, 0),
	}

	loaded := 0
	for _, path := range manifest {
		artifact, err := readArtifact(path)
		if err != nil {
			a.logger.WithFields(map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			}).Warn("Skipping unreadable artifact")
			continue
		}

		agg.Attempted += artifact.AttemptedCount
		agg.Processed += artifact.ProcessedCount
		for _, e := range artifact.Errors {
			agg.Errors = append(agg.Errors, fmt.Sprintf("%s: %s", path, e))
		}
		agg.Rows = append(agg.Rows, artifact.Results...)
		loaded++
	}

	a.logger.WithFields(map[string]interface{}{
		"manifest":  len(manifest),
		"loaded":    loaded,
		"attempted": agg.Attempted,
		"processed": agg.Processed,
		"rows":      len(agg.Rows),
		"errors":    len(agg.Errors),
	}).Info("Artifacts aggregated")

	return agg
}

func readArtifact(path string) (*contracts.WorkerArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var artifact contracts.WorkerArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	return &artifact, nil
}
