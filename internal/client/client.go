package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client performs API requests against the backend and feeds responses
// through the configured middleware pipeline.
type Client struct {
	base    *url.URL
	http    *http.Client
	perform Performer
}

// New constructs a Client. Middleware composes onion-style in the given
// order around the HTTP transport.
func New(baseURL string, httpClient *http.Client, middlewares ...Middleware) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{base: base, http: httpClient}
	c.perform = WrapPerformer(c.transport, middlewares...)
	return c, nil
}

// Do executes the request through the middleware pipeline.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.perform(ctx, req)
}

// transport is the innermost performer: real HTTP I/O plus response shaping.
func (c *Client) transport(ctx context.Context, req *Request) (*Response, error) {
	target := *c.base
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	return shapeResponse(httpResp)
}

// shapeResponse decodes the envelope; bodies that are not envelopes still
// yield a usable failure response so the matcher pipeline can run.
func shapeResponse(httpResp *http.Response) (*Response, error) {
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}
	resp := &Response{StatusCode: httpResp.StatusCode}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, resp); err != nil {
			resp.Status = StatusFailure
			resp.ErrorType = "malformed_response"
			return resp, nil
		}
	}
	if resp.Status == "" {
		if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
			resp.Status = StatusSuccess
		} else {
			resp.Status = StatusFailure
		}
	}
	return resp, nil
}
