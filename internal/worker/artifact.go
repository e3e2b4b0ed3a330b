package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/sp500scan/internal/contracts"
)

// ArtifactName returns the unique artifact filename for a shard. No two
// shards ever target the same file, so no locking is needed.
func ArtifactName(jobIndex int) string {
	return fmt.Sprintf("raw-results-%d.json", jobIndex)
}

// WriteArtifact serializes the artifact into dir and returns the full path.
// The artifact is written once and never mutated afterwards.
func WriteArtifact(dir string, artifact *contracts.WorkerArtifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}

	path := filepath.Join(dir, ArtifactName(artifact.JobIndex))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	return path, nil
}
