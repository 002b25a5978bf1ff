package framework

import "time"

type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	// StatusSkipped means the scenario was not attempted, or gave up before making any
	// judgement. The result's Detail says why.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// ScenarioResult is the outcome of one scenario. It is created once, when the scenario
// finishes or is skipped, and never modified afterward.
type ScenarioResult struct {
	Name   string
	Status Status
	Detail string
	// Heuristic is true if the scenario failed on a best-effort check of generated text
	// rather than on the structural contract.
	Heuristic bool
	Elapsed   time.Duration
}

func (r ScenarioResult) Passed() bool {
	return r.Status == StatusPassed
}

// RunSummary describes all results recorded so far. Total counts only the scenarios that
// were attempted, so Passed + Failed == Total; skipped scenarios are counted separately.
type RunSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Results []ScenarioResult
}

func summarize(results []ScenarioResult) RunSummary {
	s := RunSummary{Results: append([]ScenarioResult(nil), results...)}
	for _, r := range results {
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		default:
			s.Skipped++
		}
	}
	s.Total = s.Passed + s.Failed
	return s
}

// OK is true if nothing failed.
func (s RunSummary) OK() bool {
	return s.Failed == 0
}

// SuccessRate is the percentage of attempted scenarios that passed, or 0 if none were attempted.
func (s RunSummary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) * 100 / float64(s.Total)
}

func (s RunSummary) Failures() []ScenarioResult {
	return s.filter(StatusFailed)
}

func (s RunSummary) SkippedResults() []ScenarioResult {
	return s.filter(StatusSkipped)
}

func (s RunSummary) filter(status Status) []ScenarioResult {
	var ret []ScenarioResult
	for _, r := range s.Results {
		if r.Status == status {
			ret = append(ret, r)
		}
	}
	return ret
}
