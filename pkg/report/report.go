// Package report writes a machine-readable summary of a batch run.
package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/vertti/batchcheck/pkg/batch"
	"github.com/vertti/batchcheck/pkg/check"
)

// Target is the report entry for one checked file.
type Target struct {
	Path       string   `json:"path"`
	Status     string   `json:"status"`
	ExitCode   int      `json:"exit_code"`
	FirstError string   `json:"first_error,omitempty"`
	Details    []string `json:"details,omitempty"`
}

// Report is the document written for a run.
type Report struct {
	Passed  bool     `json:"passed"`
	Total   int      `json:"total"`
	Failed  int      `json:"failed"`
	Targets []Target `json:"targets"`
}

// FromSummary converts a run summary into a Report.
func FromSummary(s batch.Summary) Report {
	r := Report{
		Passed:  s.Passed,
		Total:   s.Total,
		Failed:  s.Failed,
		Targets: make([]Target, 0, len(s.Results)),
	}
	for _, res := range s.Results {
		r.Targets = append(r.Targets, fromResult(res))
	}
	return r
}

func fromResult(res check.Result) Target {
	return Target{
		Path:       res.Name,
		Status:     string(res.Status),
		ExitCode:   res.ExitCode,
		FirstError: res.FirstError,
		Details:    res.Details,
	}
}

// Write encodes r as indented JSON.
func Write(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	return nil
}

// WriteFile writes r to path, replacing any previous report.
func WriteFile(path string, r Report) error {
	f, err := os.Create(path) //nolint:gosec // report path is operator supplied
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	if err := Write(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close report file")
}
