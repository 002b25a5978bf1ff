package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jobreach/email-api-contract-tests/config"
	"github.com/jobreach/email-api-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	serviceURL  string
	configPath  string
	filters     framework.RegexFilters
	parallelism int
	retries     int
	debug       bool
	debugAll    bool

	explicit map[string]bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.serviceURL, "url", config.DefaultBaseURL, "base URL of the deployment under test")
	fs.StringVar(&c.configPath, "config", "", "YAML file with timeouts and fixtures")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.IntVar(&c.parallelism, "parallel", 1, "maximum number of non-critical scenarios to run at once")
	fs.IntVar(&c.retries, "retries", 0, "extra attempts for the email generation scenarios")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all scenarios")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(errOut, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	if c.parallelism < 1 {
		fmt.Fprintln(errOut, "-parallel must be at least 1")
		return false
	}
	if c.retries < 0 {
		fmt.Fprintln(errOut, "-retries must not be negative")
		return false
	}

	c.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.explicit[f.Name] = true })
	return true
}

// loadConfig reads the config file if there is one; flags given on the command line take
// precedence over it.
func (c *commandParams) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if c.explicit["url"] || c.configPath == "" {
		cfg.BaseURL = c.serviceURL
	}
	if c.explicit["retries"] {
		cfg.GenerationRetries = c.retries
	}
	return cfg, cfg.Validate()
}

// rerunCommand is a command line that runs only the given scenarios again, with the same
// target and settings. Their prerequisites are selected automatically by the orchestrator.
func (c *commandParams) rerunCommand(program string, failed []framework.ScenarioResult) string {
	var b commandBuilder
	b.add(program)
	if c.explicit["url"] {
		b.add("-url", c.serviceURL)
	}
	if c.configPath != "" {
		b.add("-config", c.configPath)
	}
	if c.explicit["retries"] {
		b.add("-retries", fmt.Sprint(c.retries))
	}
	for _, f := range failed {
		b.add("-run", "^"+regexp.QuoteMeta(f.Name)+"$")
	}
	if c.debug || c.debugAll {
		b.add("-debug")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
