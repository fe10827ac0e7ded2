package domain

import (
	"errors"
	"time"
)

// ImportPhase is a state of the import state machine. Phases only move
// forward; Failed is absorbing.
type ImportPhase string

const (
	PhaseIdle             ImportPhase = "idle"
	PhaseFetchingDocument ImportPhase = "fetching_document"
	PhaseSelecting        ImportPhase = "selecting"
	PhaseFetchingImages   ImportPhase = "fetching_images"
	PhasePersisting       ImportPhase = "persisting"
	PhaseDone             ImportPhase = "done"
	PhaseFailed           ImportPhase = "failed"
)

// IsTerminal reports whether the phase ends a run.
func (p ImportPhase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// TargetResult is the outcome for one target.
type TargetResult struct {
	// Target is the measured target.
	Target Target

	// Path is where the image was written. Empty on failure.
	Path string

	// Err is the per-target failure, nil on success.
	Err error
}

// OK reports whether the target was persisted.
func (r TargetResult) OK() bool {
	return r.Err == nil
}

// ImportReport summarises one import run.
type ImportReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// FileKey is the design file imported from.
	FileKey string

	// Pattern is the target name pattern used.
	Pattern string

	// OutputDir is where images were written.
	OutputDir string

	// Phase is the last phase reached.
	Phase ImportPhase

	// StartedAt is when the run began.
	StartedAt time.Time

	// EndedAt is when the run finished.
	EndedAt time.Time

	// Results holds one entry per target, in selection order.
	Results []TargetResult

	// Fatal is the error that aborted the run, if any.
	Fatal error
}

// Succeeded returns the results that were persisted.
func (r *ImportReport) Succeeded() []TargetResult {
	var out []TargetResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results that failed.
func (r *ImportReport) Failed() []TargetResult {
	var out []TargetResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the fatal error and every per-target error. Nil when the run
// fully succeeded.
func (r *ImportReport) Err() error {
	errs := make([]error, 0, len(r.Results)+1)
	if r.Fatal != nil {
		errs = append(errs, r.Fatal)
	}
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Duration returns how long the run took.
func (r *ImportReport) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// ImportRun is the persisted form of a report, as kept in import history.
type ImportRun struct {
	ID        string
	FileKey   string
	Pattern   string
	OutputDir string
	Phase     ImportPhase
	Error     string
	StartedAt time.Time
	EndedAt   time.Time
	Targets   []RunTarget
}

// RunTarget is the persisted outcome of one target.
type RunTarget struct {
	NodeID string
	Name   string
	Border Border
	Path   string
	Error  string
}

// OK reports whether the target was persisted.
func (t RunTarget) OK() bool {
	return t.Error == ""
}

// CountFailed returns the number of failed targets in the run.
func (r *ImportRun) CountFailed() int {
	n := 0
	for _, t := range r.Targets {
		if !t.OK() {
			n++
		}
	}
	return n
}

// RunFromReport converts a report to its persisted form.
func RunFromReport(report *ImportReport) ImportRun {
	run := ImportRun{
		ID:        report.RunID,
		FileKey:   report.FileKey,
		Pattern:   report.Pattern,
		OutputDir: report.OutputDir,
		Phase:     report.Phase,
		StartedAt: report.StartedAt,
		EndedAt:   report.EndedAt,
		Targets:   make([]RunTarget, 0, len(report.Results)),
	}
	if report.Fatal != nil {
		run.Error = report.Fatal.Error()
	}
	for _, res := range report.Results {
		rt := RunTarget{
			NodeID: res.Target.ID,
			Name:   res.Target.Name,
			Border: res.Target.Border,
			Path:   res.Path,
		}
		if res.Err != nil {
			rt.Error = res.Err.Error()
		}
		run.Targets = append(run.Targets, rt)
	}
	return run
}

// ImportStatus is a snapshot of the importer's progress.
type ImportStatus struct {
	RunID     string
	Phase     ImportPhase
	Total     int
	Persisted int
	Failed    int
}
