package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jobreach/email-api-contract-tests/logging"
)

// Client sends requests to the service under test. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a Client for the service at baseURL. Request paths are appended to
// baseURL, so baseURL should not end in a slash.
func NewClient(baseURL string, httpClient *http.Client, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send performs the request and returns the response whatever its status code. It
// returns a *TransportError if no response could be obtained within req.Timeout or if
// ctx is cancelled first.
//
// Each request and its outcome are logged to the Client's own logger, and also to logger
// if it is not nil.
func (c *Client) Send(ctx context.Context, req Request, logger logging.Logger) (*Response, error) {
	if logger == nil {
		logger = c.logger
	} else {
		logger = logging.TeeLogger(logger, c.logger)
	}
	url := c.baseURL + req.Path
	method := req.Method
	if method == "" {
		method = "GET"
	}

	body, contentType, err := req.encodeBody()
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	logger.Printf("Sending %s", req)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(ctx, req, method, url, err, logger)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if err != nil {
		return nil, c.fail(ctx, req, method, url, err, logger)
	}

	logger.Printf("Got status %d from %s %s in %s: %s", resp.StatusCode, method, req.Path, elapsed, snippet(data))
	return NewResponse(resp.StatusCode, resp.Header, data, elapsed), nil
}

func (c *Client) fail(ctx context.Context, req Request, method, url string, err error, logger logging.Logger) error {
	terr := c.classify(ctx, req, method, url, err)
	logger.Printf("%s", terr)
	return terr
}

func (c *Client) classify(ctx context.Context, req Request, method, url string, err error) error {
	kind := ConnectionFailed
	var netErr net.Error
	switch {
	case ctx.Err() != nil:
		kind = Cancelled
	case errors.Is(err, context.DeadlineExceeded):
		kind = Timeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = Timeout
	}
	return &TransportError{Kind: kind, Method: method, URL: url, Timeout: req.Timeout, Cause: err}
}
