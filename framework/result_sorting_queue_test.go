package framework

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	names []string
}

func (s *recordingSink) emit(r ScenarioResult) {
	s.names = append(s.names, r.Name)
}

func fakeResult(counter int) ScenarioResult {
	return ScenarioResult{Name: fmt.Sprintf("scenario-%d", counter)}
}

func fakeNames(counters ...int) []string {
	var ret []string
	for _, c := range counters {
		ret = append(ret, fakeResult(c).Name)
	}
	return ret
}

func acceptTestResults(q *ResultSortingQueue, counters ...int) {
	for _, c := range counters {
		q.Accept(c, fakeResult(c))
	}
}

func expectDeferredResults(t *testing.T, q *ResultSortingQueue, counters ...int) {
	var actual []string
	for _, d := range q.deferredResults() {
		actual = append(actual, d.Name)
	}
	assert.Equal(t, fakeNames(counters...), actual, "did not see expected results in deferred list")
}

func TestResultSortingQueueWithResultsInOrder(t *testing.T) {
	sink := &recordingSink{}
	q := NewResultSortingQueue(sink.emit)
	acceptTestResults(q, 1, 2, 3, 4, 5)
	expectDeferredResults(t, q) // should be empty
	assert.Equal(t, fakeNames(1, 2, 3, 4, 5), sink.names)
}

func TestResultSortingQueueWithResultsOutOfOrder(t *testing.T) {
	sink := &recordingSink{}
	q := NewResultSortingQueue(sink.emit)

	acceptTestResults(q, 3)
	expectDeferredResults(t, q, 3)

	acceptTestResults(q, 2)
	expectDeferredResults(t, q, 2, 3)

	acceptTestResults(q, 6)
	expectDeferredResults(t, q, 2, 3, 6)
	assert.Empty(t, sink.names)

	acceptTestResults(q, 1)
	assert.Equal(t, fakeNames(1, 2, 3), sink.names)
	expectDeferredResults(t, q, 6)

	acceptTestResults(q, 5)
	expectDeferredResults(t, q, 5, 6)

	acceptTestResults(q, 4)
	assert.Equal(t, fakeNames(1, 2, 3, 4, 5, 6), sink.names)
	expectDeferredResults(t, q) // empty
}
