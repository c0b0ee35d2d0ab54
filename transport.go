package tvshell

import (
	"context"
	"encoding/json"
	"fmt"
)

// Transport is the request collaborator for URL-driven page resolution.
// The production implementation lives in adapters/httpclient.
type Transport interface {
	// Get fetches url. Implementations return an error for failures to
	// reach the server; HTTP-level failure is expressed by the response
	// status code and judged by Response.OK.
	Get(ctx context.Context, url string, opts Options) (*Response, error)
}

// Response is a raw transport response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response status falls in the 200-300 success range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Payload decodes the response body per the page's response type.
// ResponseText yields a string; anything else decodes as JSON.
func (r *Response) Payload(rt ResponseType) (any, error) {
	if rt == ResponseText {
		return string(r.Body), nil
	}
	var v any
	if len(r.Body) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}
	return v, nil
}
