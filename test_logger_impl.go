package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jobreach/email-api-contract-tests/framework"
	"github.com/jobreach/email-api-contract-tests/logging"

	"github.com/fatih/color"
)

var (
	passedLabel  = color.New(color.FgGreen).SprintFunc()
	failedLabel  = color.New(color.FgRed).SprintFunc()
	skippedLabel = color.New(color.FgYellow).SprintFunc()
)

type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

func (c *ConsoleTestLogger) out() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

func (c *ConsoleTestLogger) TestStarted(name string) {
	fmt.Fprintf(c.out(), "[%s]\n", name)
}

func (c *ConsoleTestLogger) TestError(name string, detail string) {
	for _, line := range strings.Split(detail, "\n") {
		fmt.Fprintf(c.out(), "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(result framework.ScenarioResult, debugOutput logging.CapturedOutput) {
	failed := result.Status == framework.StatusFailed
	if failed {
		marker := ""
		if result.Heuristic {
			marker = " (heuristic)"
		}
		fmt.Fprintf(c.out(), "  %s: %s%s\n", failedLabel("FAILED"), result.Name, marker)
	} else {
		fmt.Fprintf(c.out(), "  %s: %s\n", passedLabel("PASSED"), result.Detail)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out(), "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(name string, reason string) {
	if reason == "" {
		fmt.Fprintf(c.out(), "  %s: %s\n", skippedLabel("SKIPPED"), name)
	} else {
		fmt.Fprintf(c.out(), "  %s: %s (%s)\n", skippedLabel("SKIPPED"), name, reason)
	}
}
