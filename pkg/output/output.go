package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/batchcheck/pkg/check"
)

// Colors for Out.
var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

// Colors for Err.
var (
	errRed   = "\033[31m"
	errDim   = "\033[2m"
	errReset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
	if !supportscolor.Stderr().SupportsColor {
		errRed, errDim, errReset = "", "", ""
	}
}

// Printer writes progress and diagnostics for a batch run.
// Progress and status lines go to Out, failure diagnostics to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Printer writing to out and errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut}
}

// Progress announces the target about to be checked.
func (p *Printer) Progress(path string) {
	_, _ = fmt.Fprintf(p.Out, "Checking %s\n", path)
}

// Command echoes the tool command line about to run.
func (p *Printer) Command(name string, args []string) {
	_, _ = fmt.Fprintf(p.Out, "%sRunning: %s%s\n", dim, strings.Join(append([]string{name}, args...), " "), reset)
}

// Failure prints the diagnostic for a failed target: the path, a colored
// error label with the exit code, the first error line and any details.
// Every line of a multi-line detail is indented.
func (p *Printer) Failure(r check.Result) {
	_, _ = fmt.Fprintf(p.Err, "%s: %serror:%s exit code %d\n", r.Name, errRed, errReset, r.ExitCode)
	if r.FirstError != "" {
		_, _ = fmt.Fprintf(p.Err, "    %s\n", r.FirstError)
	}
	for _, d := range r.Details {
		for _, line := range strings.Split(dimLabel(d, errDim, errReset), "\n") {
			_, _ = fmt.Fprintf(p.Err, "    %s\n", line)
		}
	}
}

// NoTargets notes that discovery found nothing to check.
func (p *Printer) NoTargets() {
	_, _ = fmt.Fprintln(p.Out, "No files found.")
}

// Passed prints the terminal line of a fully successful run.
func (p *Printer) Passed() {
	_, _ = fmt.Fprintf(p.Out, "%sPassed.%s\n", green, reset)
}

// Failed prints the terminal line of a run with failures.
func (p *Printer) Failed(failed, total int) {
	_, _ = fmt.Fprintf(p.Out, "%sFailed: %d of %d files.%s\n", red, failed, total, reset)
}

// PrintResult outputs a check result with colored status.
func (p *Printer) PrintResult(r check.Result) {
	if r.OK() {
		_, _ = fmt.Fprintf(p.Out, "%s[OK]%s %s\n", green, reset, formatLabel(r.Name))
	} else {
		_, _ = fmt.Fprintf(p.Out, "%s[FAIL]%s %s\n", red, reset, formatLabel(r.Name))
	}
	indent := "     "
	if !r.OK() {
		indent = "       "
	}
	for _, d := range r.Details {
		_, _ = fmt.Fprintf(p.Out, "%s%s\n", indent, formatLabel(d))
	}
}

// formatLabel dims the "label:" prefix of a detail line written to Out.
func formatLabel(s string) string {
	return dimLabel(s, dim, reset)
}

func dimLabel(s, on, off string) string {
	label, rest, ok := strings.Cut(s, ": ")
	if !ok || strings.Contains(label, " ") {
		return s
	}
	return on + label + ":" + off + " " + rest
}
