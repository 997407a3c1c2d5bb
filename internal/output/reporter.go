package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peter941221/detectfetch/internal/model"
)

var separator = strings.Repeat("-", 50)

// Reporter prints human-readable job progress. Errors go to a separate writer.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
}

func NewReporter(out io.Writer, errOut io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = out
	}
	return &Reporter{out: out, errOut: errOut}
}

func (r *Reporter) FetchingRules(runID string) {
	fmt.Fprintf(r.out, "\nFetching Rules... (run %s)\n\n", runID)
}

func (r *Reporter) NoRules() {
	fmt.Fprintln(r.out, "No rules found. Exiting...")
}

func (r *Reporter) NoRulesMatched(total int) {
	fmt.Fprintf(r.out, "No rules matched the configured filters (%d listed). Exiting...\n", total)
}

func (r *Reporter) Window(w model.Window) {
	fmt.Fprintf(r.out, "\nChecking detections for all rules from %s to %s\n\n", model.FormatTimestamp(w.Start), model.FormatTimestamp(w.End))
}

func (r *Reporter) Rule(index int, total int, rule model.Rule) {
	fmt.Fprintf(r.out, "Checking rule %d/%d:\n", index, total)
	fmt.Fprintf(r.out, "Rule Name: %s\n", rule.RuleName)
	fmt.Fprintf(r.out, "Rule ID: %s\n", rule.RuleID)
}

func (r *Reporter) DetectionsFound(count int) {
	fmt.Fprintf(r.out, "Number of detections found: %d\n", count)
	fmt.Fprintln(r.out, "\nDetection IDs:")
}

func (r *Reporter) Detection(id string) {
	fmt.Fprintln(r.out, id)
}

func (r *Reporter) DetailSaved(path string) {
	fmt.Fprintf(r.out, "Details saved to: %s\n", path)
}

func (r *Reporter) NoDetections() {
	fmt.Fprintln(r.out, "No detections found")
}

func (r *Reporter) RuleDone() {
	fmt.Fprintf(r.out, "\n%s\n\n", separator)
}

func (r *Reporter) RateLimited(op string, wait time.Duration) {
	fmt.Fprintf(r.out, "Rate limit reached while trying to %s, waiting %s before retrying...\n", op, wait)
}

// Error reports a failure that the job absorbed.
func (r *Reporter) Error(err error) {
	fmt.Fprintf(r.errOut, "Error: %v\n", err)
}
