package framework

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jobreach/email-api-contract-tests/logging"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing(name string) Scenario {
	return Scenario{Name: name, Run: func(c *Context) { c.Note("ok") }}
}

func failing(name string) Scenario {
	return Scenario{Name: name, Run: func(c *Context) { c.Failf("%s broke", name) }}
}

type recordingTestLogger struct {
	events []string
	lock   sync.Mutex
}

func (l *recordingTestLogger) add(format string, args ...interface{}) {
	l.lock.Lock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
	l.lock.Unlock()
}

func (l *recordingTestLogger) TestStarted(name string)              { l.add("start %s", name) }
func (l *recordingTestLogger) TestError(name string, detail string) { l.add("error %s", name) }
func (l *recordingTestLogger) TestFinished(r ScenarioResult, _ logging.CapturedOutput) {
	l.add("finish %s %s", r.Name, r.Status)
}
func (l *recordingTestLogger) TestSkipped(name string, reason string) { l.add("skip %s", name) }

func names(results []ScenarioResult) []string {
	var ret []string
	for _, r := range results {
		ret = append(ret, r.Name)
	}
	return ret
}

func runScenarios(t *testing.T, scenarios []Scenario, config OrchestratorConfig) RunSummary {
	o, err := NewOrchestrator(scenarios, config)
	require.NoError(t, err)
	assert.Equal(t, StatePending, o.State())
	s, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, o.State())
	return s
}

func TestRunAllPassing(t *testing.T) {
	s := runScenarios(t, []Scenario{passing("a"), passing("b"), passing("c")}, OrchestratorConfig{})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 3, s.Passed)
	assert.Equal(t, 0, s.Failed)
	assert.True(t, s.OK())
	assert.Equal(t, []string{"a", "b", "c"}, names(s.Results))
}

func TestNonCriticalFailureDoesNotStopRun(t *testing.T) {
	s := runScenarios(t, []Scenario{passing("a"), failing("b"), passing("c")}, OrchestratorConfig{})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, s.Total, s.Passed+s.Failed)
	assert.Equal(t, "b broke", s.Failures()[0].Detail)
}

func TestCriticalFailureSkipsRemainingScenarios(t *testing.T) {
	laterRan := false
	later := Scenario{Name: "later", Run: func(c *Context) { laterRan = true }}
	root := failing("root")
	root.Critical = true

	s := runScenarios(t, []Scenario{root, later, passing("last")}, OrchestratorConfig{})
	assert.False(t, laterRan)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Skipped)
	assert.Equal(t, []string{"root", "later", "last"}, names(s.Results))
	for _, r := range s.SkippedResults() {
		assert.Equal(t, `not attempted because critical scenario "root" failed`, r.Detail)
	}
}

func TestPassingCriticalScenarioDoesNotStopRun(t *testing.T) {
	root := passing("root")
	root.Critical = true
	s := runScenarios(t, []Scenario{root, failing("b"), passing("c")}, OrchestratorConfig{})
	assert.Equal(t, 3, s.Total)
}

func TestFilteredScenariosAreSkipped(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^b$"))
	logger := &recordingTestLogger{}
	s := runScenarios(t, []Scenario{passing("a"), passing("b")}, OrchestratorConfig{
		Filter:     filters.AsFilter,
		TestLogger: logger,
	})
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, skipReasonFilter, s.SkippedResults()[0].Detail)
	assert.Equal(t, []string{"start a", "finish a passed", "skip b"}, logger.events)
}

func TestZeroScenarioRun(t *testing.T) {
	s := runScenarios(t, nil, OrchestratorConfig{})
	assert.Equal(t, 0, s.Total)
	assert.True(t, s.OK())
	assert.Equal(t, float64(0), s.SuccessRate())
}

func TestRunTwiceFails(t *testing.T) {
	o, err := NewOrchestrator([]Scenario{passing("a")}, OrchestratorConfig{})
	require.NoError(t, err)
	_, err = o.Run(context.Background())
	require.NoError(t, err)
	_, err = o.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, o.Reporter().Summary().Total)
}

func TestInvalidScenarioLists(t *testing.T) {
	_, err := NewOrchestrator([]Scenario{passing("a"), passing("a")}, OrchestratorConfig{})
	assert.Error(t, err)

	consumer := passing("consumer")
	consumer.Requires = []string{"producer"}
	_, err = NewOrchestrator([]Scenario{consumer, passing("producer")}, OrchestratorConfig{})
	assert.Error(t, err)

	_, err = NewOrchestrator([]Scenario{{Name: "no-run"}}, OrchestratorConfig{})
	assert.Error(t, err)
}

func TestArtifactFlowsBetweenScenarios(t *testing.T) {
	var received string
	producer := Scenario{Name: "producer", Run: func(c *Context) {
		c.PutArtifact("id", ldvalue.String("xyz"))
	}}
	consumer := Scenario{Name: "consumer", Requires: []string{"producer"}, Run: func(c *Context) {
		received = c.RequireArtifact("id", "producer").StringValue()
	}}
	s := runScenarios(t, []Scenario{producer, consumer}, OrchestratorConfig{})
	assert.True(t, s.OK())
	assert.Equal(t, "xyz", received)
}

func TestConsumerFailsCleanlyWhenProducerFailed(t *testing.T) {
	consumerCalledService := false
	producer := failing("producer")
	consumer := Scenario{Name: "consumer", Requires: []string{"producer"}, Run: func(c *Context) {
		c.RequireArtifact("id", "producer")
		consumerCalledService = true
	}}
	s := runScenarios(t, []Scenario{producer, consumer, passing("after")}, OrchestratorConfig{})
	assert.False(t, consumerCalledService)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Failed)
	assert.Contains(t, s.Failures()[1].Detail, "prerequisite not satisfied")
}

func TestCancelledRunSkipsRemainingScenarios(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := Scenario{Name: "first", Run: func(c *Context) { cancel() }}
	o, err := NewOrchestrator([]Scenario{first, passing("second")}, OrchestratorConfig{})
	require.NoError(t, err)

	s, err := o.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
	require.Len(t, s.SkippedResults(), 1)
	assert.Equal(t, skipReasonCancelled, s.SkippedResults()[0].Detail)
}

func TestParallelRunKeepsDeclarationOrder(t *testing.T) {
	var scenarios []Scenario
	for i := 0; i < 6; i++ {
		delay := time.Duration(6-i) * 5 * time.Millisecond
		scenarios = append(scenarios, Scenario{Name: fmt.Sprintf("s%d", i), Run: func(c *Context) {
			time.Sleep(delay)
		}})
	}
	s := runScenarios(t, scenarios, OrchestratorConfig{Parallelism: 4})
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, []string{"s0", "s1", "s2", "s3", "s4", "s5"}, names(s.Results))
}

func TestParallelRunFinishesCriticalScenariosFirst(t *testing.T) {
	var lock sync.Mutex
	var order []string
	record := func(name string) Scenario {
		return Scenario{Name: name, Run: func(c *Context) {
			lock.Lock()
			order = append(order, name)
			lock.Unlock()
		}}
	}
	critical := record("critical")
	critical.Critical = true

	s := runScenarios(t, []Scenario{record("a"), critical, record("b")}, OrchestratorConfig{Parallelism: 2})
	assert.Equal(t, "critical", order[0])
	assert.Equal(t, []string{"a", "critical", "b"}, names(s.Results))
}

func TestParallelRunWaitsForPrerequisites(t *testing.T) {
	producer := Scenario{Name: "producer", Run: func(c *Context) {
		time.Sleep(20 * time.Millisecond)
		c.PutArtifact("id", ldvalue.String("xyz"))
	}}
	consumer := Scenario{Name: "consumer", Requires: []string{"producer"}, Run: func(c *Context) {
		c.RequireArtifact("id", "producer")
	}}
	s := runScenarios(t, []Scenario{producer, consumer}, OrchestratorConfig{Parallelism: 2})
	assert.True(t, s.OK())
}

func TestCriticalFailureSkipsOnlyLaterScenariosInBothModes(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		t.Run(fmt.Sprintf("parallelism %d", parallelism), func(t *testing.T) {
			root := failing("root")
			root.Critical = true
			s := runScenarios(t, []Scenario{passing("a"), root, passing("b")}, OrchestratorConfig{Parallelism: parallelism})
			assert.Equal(t, 2, s.Total)
			assert.Equal(t, 1, s.Passed)
			assert.Equal(t, 1, s.Skipped)
			assert.Equal(t, []string{"a", "root", "b"}, names(s.Results))
			assert.Equal(t, "b", s.SkippedResults()[0].Name)
		})
	}
}

func TestFilterIncludesPrerequisites(t *testing.T) {
	for _, parallelism := range []int{1, 2} {
		t.Run(fmt.Sprintf("parallelism %d", parallelism), func(t *testing.T) {
			var filters RegexFilters
			require.NoError(t, filters.MustMatch.Set("^consumer$"))
			producer := Scenario{Name: "producer", Run: func(c *Context) {
				c.PutArtifact("id", ldvalue.String("xyz"))
			}}
			middle := Scenario{Name: "middle", Requires: []string{"producer"}, Run: func(c *Context) {
				c.RequireArtifact("id", "producer")
				c.PutArtifact("id2", ldvalue.String("abc"))
			}}
			consumer := Scenario{Name: "consumer", Requires: []string{"middle"}, Run: func(c *Context) {
				c.RequireArtifact("id2", "middle")
			}}
			s := runScenarios(t, []Scenario{passing("unrelated"), producer, middle, consumer}, OrchestratorConfig{
				Filter:      filters.AsFilter,
				Parallelism: parallelism,
			})
			assert.Equal(t, 3, s.Total)
			assert.Equal(t, 0, s.Failed)
			require.Len(t, s.SkippedResults(), 1)
			assert.Equal(t, "unrelated", s.SkippedResults()[0].Name)
		})
	}
}
