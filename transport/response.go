package transport

import (
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxSnippetLength = 200

// Response is what the service under test returned for one request, whatever its status.
type Response struct {
	Status  int
	Header  http.Header
	RawBody []byte
	Elapsed time.Duration

	decoded   ldvalue.Value
	decodeErr error
}

// NewResponse builds a Response and attempts to decode the body as JSON.
func NewResponse(status int, header http.Header, body []byte, elapsed time.Duration) *Response {
	r := &Response{Status: status, Header: header, RawBody: body, Elapsed: elapsed}
	r.decoded, r.decodeErr = decodeBody(body)
	return r
}

// Decoded returns the JSON-decoded body. The second return value is false if the body
// was empty or not valid JSON; a literal JSON null decodes successfully.
func (r *Response) Decoded() (ldvalue.Value, bool) {
	if r.decodeErr != nil {
		return ldvalue.Null(), false
	}
	return r.decoded, true
}

// DecodeError returns a *DecodeError if the body could not be decoded, or nil.
func (r *Response) DecodeError() error {
	return r.decodeErr
}

// BodySnippet returns the start of the raw body for use in diagnostic messages.
func (r *Response) BodySnippet() string {
	return snippet(r.RawBody)
}

func decodeBody(body []byte) (ldvalue.Value, error) {
	if len(body) == 0 {
		return ldvalue.Null(), &DecodeError{}
	}
	var v ldvalue.Value
	if err := json.Unmarshal(body, &v); err != nil {
		return ldvalue.Null(), &DecodeError{Cause: err, Snippet: snippet(body)}
	}
	return v, nil
}

// snippet cuts body to at most maxSnippetLength bytes without splitting a UTF-8 sequence.
func snippet(body []byte) string {
	if len(body) <= maxSnippetLength {
		return string(body)
	}
	end := maxSnippetLength
	for end > 0 && !utf8.RuneStart(body[end]) {
		end--
	}
	return string(body[:end])
}
