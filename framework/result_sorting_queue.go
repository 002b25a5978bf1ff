package framework

import (
	"sort"
	"sync"
)

// ResultSortingQueue accepts results tagged with a sequence number, in any order, and
// passes them on in sequence order. Sequence numbers start at 1.
type ResultSortingQueue struct {
	emit        func(ScenarioResult)
	lastCounter int
	deferred    []deferredResult
	lock        sync.Mutex
}

type deferredResult struct {
	counter int
	result  ScenarioResult
}

func NewResultSortingQueue(emit func(ScenarioResult)) *ResultSortingQueue {
	return &ResultSortingQueue{emit: emit}
}

func (q *ResultSortingQueue) Accept(counter int, result ScenarioResult) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if counter > q.lastCounter+1 {
		q.deferred = append(q.deferred, deferredResult{counter: counter, result: result})
		sort.Slice(q.deferred, func(i, j int) bool { return q.deferred[i].counter < q.deferred[j].counter })
		return
	}
	q.lastCounter = counter
	q.emit(result)
	for len(q.deferred) > 0 {
		next := q.deferred[0]
		if next.counter != q.lastCounter+1 {
			break
		}
		q.deferred = q.deferred[1:]
		q.lastCounter++
		q.emit(next.result)
	}
}

// deferredResults returns the results that are waiting for an earlier sequence number.
func (q *ResultSortingQueue) deferredResults() []ScenarioResult {
	q.lock.Lock()
	ret := make([]ScenarioResult, 0, len(q.deferred))
	for _, d := range q.deferred {
		ret = append(ret, d.result)
	}
	q.lock.Unlock()
	return ret
}
