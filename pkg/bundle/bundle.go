// Package bundle assembles and persists the self-describing output of
// one aggregation run: the resolved month window, every per-month metric
// snapshot, per-employee timelines, and all collected findings. A bundle
// carries its own month list and metric names, so consumers never
// hardcode either.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hrpulse/hrpulse/pkg/aggindex"
	"github.com/hrpulse/hrpulse/pkg/kpi"
	"github.com/hrpulse/hrpulse/pkg/monthkey"
	"github.com/hrpulse/hrpulse/pkg/records"
	"github.com/hrpulse/hrpulse/pkg/timeline"
)

// SchemaVersion identifies the bundle layout. Bump on breaking changes.
const SchemaVersion = 1

// Bundle is the complete serialized state of one run. Exactly one bundle
// is written per invocation.
type Bundle struct {
	SchemaVersion int                          `json:"schema_version" yaml:"schema_version"`
	GeneratedAt   time.Time                    `json:"generated_at"   yaml:"generated_at"`
	Months        []string                     `json:"months"         yaml:"months"`
	MetricNames   []string                     `json:"metric_names"   yaml:"metric_names"`
	Snapshots     []kpi.Snapshot               `json:"snapshots"      yaml:"snapshots"`
	Timelines     map[string]timeline.Timeline `json:"timelines"      yaml:"timelines"`
	Findings      []records.Finding            `json:"findings"       yaml:"findings"`
}

// Build assembles a bundle from the aggregation index and the run's
// accumulated findings.
func Build(index *aggindex.Index, findings []records.Finding, now time.Time) *Bundle {
	window := index.Window()
	snapshots := make([]kpi.Snapshot, 0, len(window))

	for _, key := range window {
		if snapshot, ok := index.Snapshot(key); ok {
			snapshots = append(snapshots, snapshot)
		}
	}

	return &Bundle{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now.UTC(),
		Months:        monthkey.Strings(window),
		MetricNames:   kpi.SchemaNames(),
		Snapshots:     snapshots,
		Timelines:     index.Timelines(),
		Findings:      findings,
	}
}

// Snapshot returns the snapshot for a canonical YYYY-MM month string,
// false when the month is outside the bundle.
func (b *Bundle) Snapshot(month string) (kpi.Snapshot, bool) {
	for _, snap := range b.Snapshots {
		if snap.Month == month {
			return snap, true
		}
	}

	return kpi.Snapshot{}, false
}

// Write persists the bundle to dir under basename plus the codec's
// extension, and returns the written path.
func Write(dir, basename string, codec Codec, b *Bundle) (string, error) {
	path := filepath.Join(dir, basename+codec.Extension())

	file, createErr := os.Create(path)
	if createErr != nil {
		return "", fmt.Errorf("create bundle file: %w", createErr)
	}
	defer file.Close()

	encodeErr := codec.Encode(file, b)
	if encodeErr != nil {
		return "", fmt.Errorf("encode bundle: %w", encodeErr)
	}

	return path, nil
}

// Read loads a bundle previously written with the same codec.
func Read(path string, codec Codec) (*Bundle, error) {
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("open bundle file: %w", openErr)
	}
	defer file.Close()

	var b Bundle

	decodeErr := codec.Decode(file, &b)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode bundle: %w", decodeErr)
	}

	return &b, nil
}
