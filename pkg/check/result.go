package check

// Status represents the classification of a single target.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
)

// Result holds the classification of one checked file.
type Result struct {
	Name       string   // target path as passed to the tool
	Status     Status   // OK or FAIL
	ExitCode   int      // exit code reported by the tool
	FirstError string   // first output line containing the error marker, if any
	Details    []string // human-readable details
	Err        error    // underlying error for failures
}

// OK returns true if the target passed.
func (r Result) OK() bool {
	return r.Status == StatusOK
}
