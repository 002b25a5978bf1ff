package framework

import (
	"fmt"
	"time"
)

// Scenario is one named unit of work in a run.
type Scenario struct {
	Name string
	// Critical scenarios are the ones whose failure makes the rest of the run meaningless.
	// If one fails, no later scenario is attempted.
	Critical bool
	// Requires names earlier scenarios whose artifacts this one consumes.
	Requires []string
	Run      func(*Context)
}

// WithRetries returns a copy of the scenario that makes up to attempts attempts, waiting
// delay between them, and reports the last attempt. Only failures are retried, never skips.
//
// An attempt that stored an artifact before failing keeps it stored, so a retried producer
// should store its artifacts last.
func (s Scenario) WithRetries(attempts int, delay time.Duration) Scenario {
	if attempts <= 1 {
		return s
	}
	action := s.Run
	s.Run = func(c *Context) {
		for i := 1; ; i++ {
			attempt := c.newAttempt()
			attempt.run(action)
			if !attempt.failed || attempt.skipped || i >= attempts || c.ctx.Err() != nil {
				c.adopt(attempt)
				if i > 1 {
					c.Debug("Finished after %d attempts", i)
				}
				return
			}
			c.Debug("Attempt %d of %d failed (%s), retrying", i, attempts, attempt.detail)
			select {
			case <-time.After(delay):
			case <-c.ctx.Done():
				c.adopt(attempt)
				return
			}
		}
	}
	return s
}

func validateScenarios(scenarios []Scenario) error {
	seen := make(map[string]bool)
	for _, s := range scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario has no name")
		}
		if s.Run == nil {
			return fmt.Errorf("scenario %q has no Run function", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario name %q", s.Name)
		}
		for _, r := range s.Requires {
			if !seen[r] {
				return fmt.Errorf("scenario %q requires %q, which must be declared before it", s.Name, r)
			}
		}
		seen[s.Name] = true
	}
	return nil
}
