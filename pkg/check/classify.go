package check

import "strings"

// ErrorMarker is the case-sensitive substring that marks a defect in tool output.
const ErrorMarker = "error:"

// Classify decides whether a tool invocation passed. The output must not
// contain ErrorMarker and the exit code must be zero.
func Classify(output string, exitCode int) Status {
	if exitCode != 0 || strings.Contains(output, ErrorMarker) {
		return StatusFail
	}
	return StatusOK
}

// FirstErrorLine returns the first line of output containing ErrorMarker.
// The second return value is false when no line matches.
func FirstErrorLine(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, ErrorMarker) {
			return strings.TrimSuffix(line, "\r"), true
		}
	}
	return "", false
}
