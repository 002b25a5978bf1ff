package framework

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jobreach/email-api-contract-tests/assertions"
	"github.com/jobreach/email-api-contract-tests/logging"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Context is the state of one running scenario. It implements the TestingT interface of
// the testify assert and require packages.
//
// The first failure reported to a Context supplies the scenario's failure detail. Later
// failures are still passed to the TestLogger, but do not replace it.
type Context struct {
	ctx         context.Context
	name        string
	artifacts   *ArtifactBag
	testLogger  TestLogger
	debugLogger *logging.CapturingLogger
	notes       []string
	failed      bool
	heuristic   bool
	detail      string
	skipped     bool
	skipReason  string
}

func newContext(ctx context.Context, name string, artifacts *ArtifactBag, testLogger TestLogger) *Context {
	return &Context{
		ctx:         ctx,
		name:        name,
		artifacts:   artifacts,
		testLogger:  testLogger,
		debugLogger: &logging.CapturingLogger{},
	}
}

// run is the scenario boundary: whatever the action does, it returns normally.
func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			if _, ok := r.(*Context); ok {
				if !c.failed {
					c.fail("scenario failed with no failure message", false)
				}
			} else {
				c.fail(fmt.Sprintf("unexpected panic in scenario: %+v", r), false)
				c.debugLogger.Printf("%s", debug.Stack())
			}
		}
	}()
	action(c)
}

func (c *Context) result(elapsed time.Duration) ScenarioResult {
	r := ScenarioResult{Name: c.name, Elapsed: elapsed}
	switch {
	case c.skipped:
		r.Status = StatusSkipped
		r.Detail = c.skipReason
	case c.failed:
		r.Status = StatusFailed
		r.Detail = c.detail
		r.Heuristic = c.heuristic
	default:
		r.Status = StatusPassed
		r.Detail = strings.Join(c.notes, ", ")
	}
	return r
}

func (c *Context) fail(detail string, heuristic bool) {
	if !c.failed {
		c.detail = detail
		c.heuristic = heuristic
	}
	c.failed = true
	c.debugLogger.Printf("FAILURE: %s", detail)
	c.testLogger.TestError(c.name, detail)
}

func (c *Context) Name() string {
	return c.name
}

// Context returns the run's context.Context. It is cancelled if the run is cancelled, so
// blocking calls made by the scenario should use it.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Failed reports whether a failure has been recorded so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Errorf records a failure without stopping the scenario. The assert package calls this.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.fail(reformatError(fmt.Sprintf(format, args...)), false)
}

// FailNow stops the scenario immediately. The require package calls this.
func (c *Context) FailNow() {
	panic(c)
}

// Failf records a failure and stops the scenario.
func (c *Context) Failf(format string, args ...interface{}) {
	c.fail(fmt.Sprintf(format, args...), false)
	c.FailNow()
}

// Require stops the scenario if the outcome is a failure.
func (c *Context) Require(outcome assertions.Outcome) {
	if !outcome.OK {
		c.fail(outcome.Detail, outcome.Heuristic)
		c.FailNow()
	}
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Note adds an observation to the scenario's detail string, which is reported if the
// scenario passes.
func (c *Context) Note(format string, args ...interface{}) {
	note := fmt.Sprintf(format, args...)
	c.notes = append(c.notes, note)
	c.debugLogger.Printf("%s", note)
}

// Debug logs debug output for the scenario. The output is passed to the TestLogger at the
// end of the scenario.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() logging.Logger {
	return c.debugLogger
}

// PutArtifact stores a value for later scenarios, failing the scenario if the key was
// already produced.
func (c *Context) PutArtifact(key string, value ldvalue.Value) {
	if err := c.artifacts.Put(key, value); err != nil {
		c.Failf("%s", err)
	}
	c.Debug("Produced artifact %q: %s", key, value.JSONString())
}

// RequireArtifact returns a value produced by an earlier scenario. If there is none, the
// scenario fails as "prerequisite not satisfied" without doing anything else, so that
// the problem is attributed to the producer rather than to whatever this scenario calls.
func (c *Context) RequireArtifact(key string, producer string) ldvalue.Value {
	v, err := c.artifacts.Get(key)
	if err != nil {
		var missing *MissingArtifactError
		if errors.As(err, &missing) {
			c.Debug("Artifacts available: %v", c.artifacts.Keys())
			c.Failf("prerequisite not satisfied: %s (expected from %q)", err, producer)
		}
		c.Failf("%s", err)
	}
	return v
}

func (c *Context) newAttempt() *Context {
	return &Context{
		ctx:         c.ctx,
		name:        c.name,
		artifacts:   c.artifacts,
		testLogger:  c.testLogger,
		debugLogger: c.debugLogger,
	}
}

func (c *Context) adopt(attempt *Context) {
	c.notes = attempt.notes
	c.failed = attempt.failed
	c.detail = attempt.detail
	c.heuristic = attempt.heuristic
	c.skipped = attempt.skipped
	c.skipReason = attempt.skipReason
}

var testifyLabelRegex = regexp.MustCompile(`^\t([A-Za-z ]+):\s*\t(.*)$`)

// reformatError turns the multi-line report produced by testify into a single line,
// keeping only the error and the caller's message.
func reformatError(message string) string {
	var errorText, messages []string
	var current *[]string
	for _, line := range strings.Split(message, "\n") {
		if m := testifyLabelRegex.FindStringSubmatch(line); m != nil {
			switch m[1] {
			case "Error":
				current = &errorText
			case "Messages":
				current = &messages
			default:
				current = nil
			}
			line = m[2]
		}
		if current != nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				*current = append(*current, trimmed)
			}
		}
	}
	if len(errorText) == 0 {
		return strings.TrimSpace(message)
	}
	ret := strings.Join(errorText, " ")
	if len(messages) > 0 {
		ret = strings.Join(messages, " ") + ": " + ret
	}
	return ret
}
