package assertions

import (
	"fmt"
	"strings"

	"github.com/jobreach/email-api-contract-tests/transport"
)

// StatusEquals requires an exact status code.
func StatusEquals(expected int) Assertion {
	return func(resp *transport.Response) Outcome {
		if resp.Status == expected {
			return pass("Status: %d", resp.Status)
		}
		return fail("expected status %d but got %d%s", expected, resp.Status, bodySuffix(resp))
	}
}

// StatusIn accepts any of the allowed status codes. It is meant for error responses that
// the service may report with more than one code depending on where the failure happened.
func StatusIn(allowed ...int) Assertion {
	return func(resp *transport.Response) Outcome {
		for _, s := range allowed {
			if resp.Status == s {
				return pass("Status: %d", resp.Status)
			}
		}
		return fail("expected status in %s but got %d%s", formatCodes(allowed), resp.Status, bodySuffix(resp))
	}
}

func formatCodes(codes []int) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		parts = append(parts, fmt.Sprint(c))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func bodySuffix(resp *transport.Response) string {
	if len(resp.RawBody) == 0 {
		return ""
	}
	return ", response: " + resp.BodySnippet()
}
