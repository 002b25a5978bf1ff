package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobreach/email-api-contract-tests/apitests"
	"github.com/jobreach/email-api-contract-tests/framework"
	"github.com/jobreach/email-api-contract-tests/logging"
	"github.com/jobreach/email-api-contract-tests/transport"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return 1
	}
	cfg, err := params.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainDebugLogger := logging.NullLogger()
	if params.debugAll {
		mainDebugLogger = logging.PrefixedLogger(logging.NewConsoleLogger(os.Stdout), "[transport] ")
	}
	client := transport.NewClient(cfg.APIURL(), nil, mainDebugLogger)

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)
	fmt.Printf("Running contract tests against %s\n", client.BaseURL())

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	reporter := framework.NewReporter()

	summary, err := apitests.RunTestSuite(ctx, client, cfg, framework.OrchestratorConfig{
		Filter:      params.filters.AsFilter,
		TestLogger:  testLogger,
		Reporter:    reporter,
		Parallelism: params.parallelism,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test suite error: %s\n", err)
		return 1
	}

	fmt.Println()
	reporter.Render(os.Stdout)
	if ctx.Err() != nil {
		fmt.Println("Run was cancelled before all scenarios finished")
		return 1
	}
	if !summary.OK() {
		fmt.Println()
		fmt.Println("To run only the failed scenarios again:")
		fmt.Printf("  %s\n", params.rerunCommand(args[0], summary.Failures()))
		return 1
	}
	return 0
}
