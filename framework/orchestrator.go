package framework

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	default:
		return "completed"
	}
}

const (
	skipReasonFilter    = "excluded by filter parameters"
	skipReasonCancelled = "run cancelled"
)

type OrchestratorConfig struct {
	// Filter, if set, excludes scenarios from the run. Excluded scenarios are reported as
	// skipped, except that a scenario required by an included one is always included.
	Filter     Filter
	TestLogger TestLogger
	// Reporter receives every result. If nil, a new Reporter is created.
	Reporter *Reporter
	// Parallelism greater than 1 lets non-critical scenarios run concurrently, after all
	// critical scenarios have finished. Results are still reported in declaration order.
	Parallelism int
}

// Orchestrator runs a fixed list of scenarios once.
type Orchestrator struct {
	scenarios []Scenario
	config    OrchestratorConfig
	artifacts *ArtifactBag
	included  map[string]bool
	state     State
	lock      sync.Mutex
}

// NewOrchestrator checks that the scenario list is well-formed: names are unique, and every
// prerequisite is declared before the scenario that requires it.
func NewOrchestrator(scenarios []Scenario, config OrchestratorConfig) (*Orchestrator, error) {
	if err := validateScenarios(scenarios); err != nil {
		return nil, err
	}
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	if config.Reporter == nil {
		config.Reporter = NewReporter()
	}
	return &Orchestrator{
		scenarios: append([]Scenario(nil), scenarios...),
		config:    config,
		artifacts: NewArtifactBag(),
		included:  includedScenarios(scenarios, config.Filter),
	}, nil
}

// includedScenarios applies the filter, then adds the prerequisites of every included
// scenario. Prerequisites are always declared earlier, so one backward pass is enough.
func includedScenarios(scenarios []Scenario, filter Filter) map[string]bool {
	included := make(map[string]bool, len(scenarios))
	needed := make(map[string]bool)
	for i := len(scenarios) - 1; i >= 0; i-- {
		s := scenarios[i]
		if filter == nil || filter(s.Name) || needed[s.Name] {
			included[s.Name] = true
			for _, r := range s.Requires {
				needed[r] = true
			}
		}
	}
	return included
}

func (o *Orchestrator) State() State {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.state
}

func (o *Orchestrator) Reporter() *Reporter {
	return o.config.Reporter
}

func (o *Orchestrator) setState(s State) {
	o.lock.Lock()
	o.state = s
	o.lock.Unlock()
}

// Run executes the scenarios and returns the summary. Every scenario ends up in the
// summary, either with a result or as skipped. If ctx is cancelled, requests in flight are
// abandoned and the scenarios not yet started are reported as skipped.
//
// Run can only be called once; later calls return an error.
func (o *Orchestrator) Run(ctx context.Context) (RunSummary, error) {
	o.lock.Lock()
	if o.state != StatePending {
		o.lock.Unlock()
		return o.config.Reporter.Summary(), errors.New("orchestrator has already run")
	}
	o.state = StateRunning
	o.lock.Unlock()

	if o.config.Parallelism > 1 {
		o.runParallel(ctx)
	} else {
		o.runSequential(ctx)
	}

	o.setState(StateCompleted)
	return o.config.Reporter.Summary(), nil
}

func (o *Orchestrator) runSequential(ctx context.Context) {
	logger := o.config.TestLogger
	for i, s := range o.scenarios {
		if reason := o.skipReason(ctx, s); reason != "" {
			o.config.Reporter.Record(o.skip(s, reason, logger))
			continue
		}
		result := o.runScenario(ctx, s, logger)
		o.config.Reporter.Record(result)
		if s.Critical && result.Status == StatusFailed {
			reason := abortReason(s)
			for _, rest := range o.scenarios[i+1:] {
				o.config.Reporter.Record(o.skip(rest, reason, logger))
			}
			return
		}
	}
}

func (o *Orchestrator) runParallel(ctx context.Context) {
	logger := &lockedTestLogger{target: o.config.TestLogger}
	queue := NewResultSortingQueue(o.config.Reporter.Record)
	done := make(map[string]chan struct{}, len(o.scenarios))
	for _, s := range o.scenarios {
		done[s.Name] = make(chan struct{})
	}
	finish := func(i int, result ScenarioResult) {
		queue.Accept(i+1, result)
		close(done[o.scenarios[i].Name])
	}

	// Non-critical scenarios declared before a failed critical one still run, as they
	// would in a sequential run.
	aborted, abortedAt := "", len(o.scenarios)
	for i, s := range o.scenarios {
		if !s.Critical {
			continue
		}
		if aborted != "" {
			finish(i, o.skip(s, aborted, logger))
			continue
		}
		if reason := o.skipReason(ctx, s); reason != "" {
			finish(i, o.skip(s, reason, logger))
			continue
		}
		result := o.runScenario(ctx, s, logger)
		finish(i, result)
		if result.Status == StatusFailed {
			aborted, abortedAt = abortReason(s), i
		}
	}

	var g errgroup.Group
	g.SetLimit(o.config.Parallelism)
	for i, s := range o.scenarios {
		if s.Critical {
			continue
		}
		i, s := i, s
		if i > abortedAt {
			finish(i, o.skip(s, aborted, logger))
			continue
		}
		g.Go(func() error {
			for _, r := range s.Requires {
				select {
				case <-done[r]:
				case <-ctx.Done():
				}
			}
			if reason := o.skipReason(ctx, s); reason != "" {
				finish(i, o.skip(s, reason, logger))
				return nil
			}
			finish(i, o.runScenario(ctx, s, logger))
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) skipReason(ctx context.Context, s Scenario) string {
	if ctx.Err() != nil {
		return skipReasonCancelled
	}
	if !o.included[s.Name] {
		return skipReasonFilter
	}
	return ""
}

func abortReason(critical Scenario) string {
	return fmt.Sprintf("not attempted because critical scenario %q failed", critical.Name)
}

func (o *Orchestrator) skip(s Scenario, reason string, logger TestLogger) ScenarioResult {
	logger.TestSkipped(s.Name, reason)
	return ScenarioResult{Name: s.Name, Status: StatusSkipped, Detail: reason}
}

func (o *Orchestrator) runScenario(ctx context.Context, s Scenario, logger TestLogger) ScenarioResult {
	logger.TestStarted(s.Name)
	c := newContext(ctx, s.Name, o.artifacts, logger)
	start := time.Now()
	c.run(s.Run)
	result := c.result(time.Since(start))
	if result.Status == StatusSkipped {
		logger.TestSkipped(s.Name, result.Detail)
	} else {
		logger.TestFinished(result, c.debugLogger.Output())
	}
	return result
}
