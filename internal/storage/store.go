package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tsdoc/internal/errors"
	"tsdoc/internal/models"
)

// ErrRunNotFound is returned by LoadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Store keeps the history of conversion runs.
type Store interface {
	// SaveRun persists a run and every reflection it produced.
	SaveRun(ctx context.Context, run *Run) error

	// ListRuns returns the latest runs first, without their reflections.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// LoadRun returns one run including its reflections.
	LoadRun(ctx context.Context, id string) (*Run, error)

	Close() error
}

// Run is one conversion as recorded in the history.
type Run struct {
	ID            string
	Project       string
	StartedAt     time.Time
	Duration      time.Duration
	OptionsDigest string
	Diagnostics   []string
	// ReflectionCount is filled by ListRuns; LoadRun fills Reflections instead.
	ReflectionCount int
	Reflections     []ReflectionRecord
}

// ReflectionRecord is the stored outline of one reflection. Parent is the
// parent's id; reflections directly below the project have parent 0.
type ReflectionRecord struct {
	ID     int
	Name   string
	Kind   models.ReflectionKind
	Parent int
}

// NewRun captures project under a fresh run id. A nil project records a
// run that failed before producing a model.
func NewRun(project *models.ProjectReflection, digest string, diagnostics []string, started time.Time, took time.Duration) *Run {
	run := &Run{
		ID:            uuid.NewString(),
		StartedAt:     started.UTC(),
		Duration:      took,
		OptionsDigest: digest,
		Diagnostics:   diagnostics,
	}
	if project == nil {
		return run
	}
	run.Project = project.Name
	for pair := project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		base := pair.Value.Base()
		rec := ReflectionRecord{ID: base.ID, Name: base.Name, Kind: base.Kind}
		if base.Parent != nil {
			rec.Parent = base.Parent.Base().ID
		}
		run.Reflections = append(run.Reflections, rec)
	}
	run.ReflectionCount = len(run.Reflections)
	return run
}
