package framework

import (
	"sync"

	"github.com/jobreach/email-api-contract-tests/logging"
)

// TestLogger receives progress notifications as the run proceeds.
type TestLogger interface {
	TestStarted(name string)
	TestError(name string, detail string)
	TestFinished(result ScenarioResult, debugOutput logging.CapturedOutput)
	TestSkipped(name string, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(string)                                  {}
func (n nullTestLogger) TestError(string, string)                            {}
func (n nullTestLogger) TestFinished(ScenarioResult, logging.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(string, string)                          {}

// lockedTestLogger serializes calls from scenarios running concurrently.
type lockedTestLogger struct {
	target TestLogger
	lock   sync.Mutex
}

func (l *lockedTestLogger) TestStarted(name string) {
	l.lock.Lock()
	l.target.TestStarted(name)
	l.lock.Unlock()
}

func (l *lockedTestLogger) TestError(name string, detail string) {
	l.lock.Lock()
	l.target.TestError(name, detail)
	l.lock.Unlock()
}

func (l *lockedTestLogger) TestFinished(result ScenarioResult, debugOutput logging.CapturedOutput) {
	l.lock.Lock()
	l.target.TestFinished(result, debugOutput)
	l.lock.Unlock()
}

func (l *lockedTestLogger) TestSkipped(name string, reason string) {
	l.lock.Lock()
	l.target.TestSkipped(name, reason)
	l.lock.Unlock()
}
