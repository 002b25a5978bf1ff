// Package assertions contains the checks that scenarios apply to responses from the
// service under test.
//
// Every check is a pure function: it inspects its inputs and returns an Outcome, with no
// side effects, so evaluating the same check twice on the same response always gives the
// same Outcome. Checks built on free-text matching against generated content are marked
// as heuristic in their Outcome, because that content is not deterministic.
package assertions

import (
	"fmt"
	"strings"

	"github.com/jobreach/email-api-contract-tests/transport"
)

// Outcome is the result of one check.
type Outcome struct {
	OK     bool
	Detail string
	// Heuristic is true for best-effort checks on generated text, as opposed to checks
	// of the structural contract.
	Heuristic bool
}

func pass(format string, args ...interface{}) Outcome {
	return Outcome{OK: true, Detail: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...interface{}) Outcome {
	return Outcome{OK: false, Detail: fmt.Sprintf(format, args...)}
}

func (o Outcome) String() string {
	status := "ok"
	if !o.OK {
		status = "failed"
	}
	if o.Heuristic {
		status += " (heuristic)"
	}
	return fmt.Sprintf("%s: %s", status, o.Detail)
}

// Assertion is a check over a whole response.
type Assertion func(*transport.Response) Outcome

// Check evaluates the assertions in order and stops at the first one that fails, whose
// Outcome is returned. If none fail, the details of all of them are combined.
func Check(resp *transport.Response, assertions ...Assertion) Outcome {
	var details []string
	for _, a := range assertions {
		o := a(resp)
		if !o.OK {
			return o
		}
		if o.Detail != "" {
			details = append(details, o.Detail)
		}
	}
	return Outcome{OK: true, Detail: strings.Join(details, ", ")}
}

// All combines assertions into one with the same short-circuit behavior as Check.
func All(assertions ...Assertion) Assertion {
	return func(resp *transport.Response) Outcome {
		return Check(resp, assertions...)
	}
}
