package contracts

import "time"

// WorkerArtifact is the durable output of one shard run. It is written once
// to a uniquely named file and never mutated. Invariant:
// AttemptedCount >= ProcessedCount == len(Results).
type WorkerArtifact struct {
	Results        []FeatureRow `json:"results"`
	AttemptedCount int          `json:"attempted_count"`
	ProcessedCount int          `json:"processed_count"`
	Errors         []string     `json:"errors"`
	JobIndex       int          `json:"job_index"`
	TS             time.Time    `json:"ts"`
}
