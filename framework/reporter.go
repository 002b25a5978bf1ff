package framework

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const reportRule = "============================================================"

// Reporter accumulates results in the order they are recorded. It is safe for concurrent
// use, and Summary can be called at any time during or after a run.
type Reporter struct {
	results []ScenarioResult
	lock    sync.Mutex
}

func NewReporter() *Reporter {
	return &Reporter{}
}

func (r *Reporter) Record(result ScenarioResult) {
	r.lock.Lock()
	r.results = append(r.results, result)
	r.lock.Unlock()
}

func (r *Reporter) Summary() RunSummary {
	r.lock.Lock()
	defer r.lock.Unlock()
	return summarize(r.results)
}

// Render writes the final report: counts, success rate, and every failed and skipped
// scenario with its detail.
func (r *Reporter) Render(out io.Writer) {
	s := r.Summary()
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(out, reportRule)
	fmt.Fprintln(out, "TEST SUMMARY")
	fmt.Fprintln(out, reportRule)
	fmt.Fprintf(out, "Total Tests: %d\n", s.Total)
	fmt.Fprintf(out, "Passed: %d\n", s.Passed)
	fmt.Fprintf(out, "Failed: %d\n", s.Failed)
	fmt.Fprintf(out, "Skipped: %d\n", s.Skipped)
	if s.Total == 0 {
		fmt.Fprintln(out, "Success Rate: n/a")
	} else {
		fmt.Fprintf(out, "Success Rate: %.1f%%\n", s.SuccessRate())
	}

	if failures := s.Failures(); len(failures) > 0 {
		fmt.Fprintln(out)
		red.Fprintln(out, "FAILED TESTS:")
		for _, f := range failures {
			marker := ""
			if f.Heuristic {
				marker = " [heuristic check on generated content]"
			}
			fmt.Fprintf(out, "  - %s: %s%s\n", f.Name, oneLine(f.Detail), marker)
		}
	}
	if skipped := s.SkippedResults(); len(skipped) > 0 {
		fmt.Fprintln(out)
		yellow.Fprintln(out, "NOT ATTEMPTED:")
		for _, sk := range skipped {
			fmt.Fprintf(out, "  - %s: %s\n", sk.Name, sk.Detail)
		}
	}

	fmt.Fprintln(out)
	switch {
	case s.Total == 0:
		yellow.Fprintln(out, "No scenarios were attempted.")
	case s.OK():
		green.Fprintln(out, "All tests passed!")
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
