// Package httpclient provides the production Transport collaborator, backed
// by resty. Page transport options (timeout, headers, credentials) pass
// through per request; the engine judges success from the status code.
//
//	client := httpclient.New()
//	defer client.Close()
//	app := tvshell.New(tvshell.WithTransport(client), ...)
package httpclient

import (
	"context"
	"encoding/base64"
	"fmt"

	"resty.dev/v3"

	"github.com/tvshell/tvshell"
)

// Client is a resty-backed Transport.
type Client struct {
	rc *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a base URL prepended to relative page URLs.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.rc.SetBaseURL(baseURL) }
}

// WithHeader sets a header sent on every request, e.g. an API key.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.rc.SetHeader(key, value) }
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{rc: resty.New()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close releases the underlying client resources.
func (c *Client) Close() error {
	return c.rc.Close()
}

// Get fetches url. A failure to reach the server wraps ErrTransport;
// HTTP-level failures come back as the response status code untouched.
func (c *Client) Get(ctx context.Context, url string, opts tvshell.Options) (*tvshell.Response, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req := c.rc.R().SetContext(ctx)
	for k, v := range opts.Headers {
		req.SetHeader(k, v)
	}
	if opts.User != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(opts.User + ":" + opts.Password))
		req.SetHeader("Authorization", "Basic "+cred)
	}

	res, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", tvshell.ErrTransport, url, err)
	}
	return &tvshell.Response{
		StatusCode: res.StatusCode(),
		Body:       res.Bytes(),
	}, nil
}
