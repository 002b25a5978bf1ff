package apitests

import (
	"errors"

	"github.com/jobreach/email-api-contract-tests/assertions"
	"github.com/jobreach/email-api-contract-tests/config"
	"github.com/jobreach/email-api-contract-tests/framework"
	"github.com/jobreach/email-api-contract-tests/transport"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// T represents one running scenario in the API test suite.
//
// It implements the same basic functionality as Go's testing.T, so the assert and require
// packages can be used with it, on top of the lower-level framework.Context. It also knows
// how to talk to the service under test: its request methods fail the scenario
// immediately if no response can be obtained, so scenarios only deal with responses.
type T struct {
	context *framework.Context
	client  *transport.Client
	config  config.Config
}

// Errorf is called by assertions to log a failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a scenario should fail and immediately exit. The
// methods in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Failf fails the scenario with a message and exits it.
func (t *T) Failf(format string, args ...interface{}) {
	t.context.Failf(format, args...)
}

// Note records an observation that becomes part of the scenario's detail if it passes.
func (t *T) Note(format string, args ...interface{}) {
	t.context.Note(format, args...)
}

// Debug logs some debug output for the scenario. The output will be passed to the test
// logger at the end of the scenario.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Send sends a request to the service and returns the response, whatever its status.
//
// If there is no response because of a timeout or connection failure, the scenario fails
// and exits. If the run was cancelled, the scenario is skipped instead.
func (t *T) Send(req transport.Request) *transport.Response {
	resp, err := t.client.Send(t.context.Context(), req, t.context.DebugLogger())
	if err != nil {
		var transportErr *transport.TransportError
		if errors.As(err, &transportErr) && transportErr.Kind == transport.Cancelled {
			t.context.SkipWithReason("run cancelled")
		}
		t.Failf("%s", err)
	}
	return resp
}

// Get sends a GET request with the timeout for metadata and listing calls.
func (t *T) Get(path string) *transport.Response {
	return t.Send(transport.Get(path, t.config.ShortTimeout))
}

// Require applies the assertions in order, and fails and exits the scenario at the first
// one that fails.
func (t *T) Require(resp *transport.Response, checks ...assertions.Assertion) {
	t.context.Require(assertions.Check(resp, checks...))
}

// Decoded returns the JSON body of the response, failing the scenario if there is none.
func (t *T) Decoded(resp *transport.Response) ldvalue.Value {
	t.Require(resp, assertions.IsJSON())
	v, _ := resp.Decoded()
	return v
}

// PutArtifact makes a value available to later scenarios.
func (t *T) PutArtifact(key string, value ldvalue.Value) {
	t.context.PutArtifact(key, value)
}

// RequireArtifact returns a value produced by the named earlier scenario. If that scenario
// did not produce it, this scenario fails as "prerequisite not satisfied" and exits.
func (t *T) RequireArtifact(key string, producer string) ldvalue.Value {
	return t.context.RequireArtifact(key, producer)
}

// RequireEachHasFields checks that every element of the array at the top of the response
// body is an object with all of the given fields.
func (t *T) RequireEachHasFields(resp *transport.Response, fields ...string) {
	items := t.Decoded(resp)
	for i := 0; i < items.Count(); i++ {
		o := assertions.CheckFields(items.GetByIndex(i), fields...)
		if !o.OK {
			t.Failf("item %d: %s", i, o.Detail)
		}
	}
}
