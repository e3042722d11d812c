package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"sigs.k8s.io/yaml"
)

// Result statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Run triggers.
const (
	TriggerCLI      = "cli"
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
)

// Result is the outcome of a single check.
type Result struct {
	Check     string        `json:"check"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Passed reports whether the check passed.
func (r Result) Passed() bool {
	return r.Status == StatusPassed
}

// Run is one sequential pass over the selected checks.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Results    []Result  `json:"results"`
}

// NewRun creates an empty run stamped with a fresh ID and start time.
func NewRun(trigger string) *Run {
	return &Run{
		ID:        uuid.New(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
		Results:   []Result{},
	}
}

// Passed reports whether every check in the run passed.
// A run with no results passes.
func (r *Run) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Summary counts passed and failed results.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// Summary returns pass/fail counts for the run.
func (r *Run) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// document is the rendered shape of a run.
type document struct {
	*Run
	Passed  bool    `json:"passed"`
	Summary Summary `json:"summary"`
}

// Write renders the run to w in the given format ("yaml" or "json").
func Write(w io.Writer, run *Run, format string) error {
	doc := document{Run: run, Passed: run.Passed(), Summary: run.Summary()}

	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(doc, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
