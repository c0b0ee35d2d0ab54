package tvshell

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/a-h/templ"
)

// ResponseType discriminates how a transport response body is decoded
// before it reaches the page's data transform.
type ResponseType string

const (
	// ResponseJSON decodes the body as JSON into untyped Go values.
	// This is the default when a configuration leaves it unset.
	ResponseJSON ResponseType = "json"

	// ResponseText passes the body through as a string.
	ResponseText ResponseType = "text"
)

// Options are transport options carried on a page configuration and passed
// through to the Transport collaborator untouched, apart from ResponseType
// which the pipeline consumes itself.
type Options struct {
	ResponseType ResponseType
	Timeout      time.Duration
	Headers      map[string]string
	User         string
	Password     string
}

// CallOptions are per-invocation options supplied when a page factory is
// invoked, directly or through a navigation attribute.
type CallOptions struct {
	// Replace marks the resulting navigation as replacing the current
	// top of the stack.
	Replace bool

	// Params carries arbitrary parameters for the page's Ready resolver
	// or data transform. Populated from the options-JSON markup attribute
	// when navigation is attribute-driven.
	Params map[string]any
}

// HandlerFunc is a page event handler. The owning configuration is passed as
// the first argument so a handler can reference sibling configuration fields
// through it, the way the handler table expects.
type HandlerFunc func(cfg *PageConfig, ev Event)

// ReadyFunc is a custom page resolver. It receives the per-call options and
// a handle carrying three continuations: Resolve builds a document from the
// supplied data (nil data builds from the template alone), Suppress resolves
// the invocation successfully with no document, and Reject fails it. The
// first continuation invoked wins; later calls are ignored. Continuations
// may be invoked from any goroutine.
type ReadyFunc func(ctx context.Context, opts CallOptions, h *ReadyHandle)

// PageConfig declares everything about a page: how its document is produced,
// styled, and wired with event handlers.
//
// At most one of Ready and URL drives resolution; Ready takes precedence.
// With neither set the document resolves synchronously from Template and
// Data alone.
type PageConfig struct {
	// Name identifies the page in the registry. Stamped by Create.
	Name string

	// Style is CSS prepended into the rendered document's style container.
	Style string

	// Template produces the document markup. One of string,
	// func(any) string, or templ.Component.
	Template any

	// Data is either a literal value handed to the template, or a
	// func(any) any transform applied to the fetched response payload.
	// Unset, the payload passes through unchanged.
	Data any

	// Options are transport options for URL-driven resolution.
	Options Options

	// URL, when set and Ready is not, is fetched through the Transport
	// collaborator and the response payload feeds the template.
	URL string

	// Ready, when set, overrides every other resolution strategy.
	Ready ReadyFunc

	// AfterReady runs with the finished document before the invocation
	// resolves.
	AfterReady func(doc Document)

	// OnError recovers a failed fetch. When set, a transport failure is
	// delivered here and the invocation resolves with no document instead
	// of failing.
	OnError func(err error)

	// Events maps event descriptors ("select", "select .movie") to the
	// handlers bound when the document renders.
	Events map[string]HandlerRefs

	// Handlers is the named-handler table ByName references resolve
	// against at bind time.
	Handlers map[string]HandlerFunc
}

// clone returns a copy of the configuration safe to mutate independently.
// Maps are copied one level deep; handler and template values are shared.
func (c *PageConfig) clone() *PageConfig {
	if c == nil {
		return &PageConfig{}
	}
	out := *c
	out.Events = maps.Clone(c.Events)
	out.Handlers = maps.Clone(c.Handlers)
	out.Options.Headers = maps.Clone(c.Options.Headers)
	return &out
}

// dataFor applies the configuration's data transform to a response payload.
// A func(any) any transform runs over the payload; any other non-nil value
// is a literal that wins outright; unset passes the payload through.
func (c *PageConfig) dataFor(payload any) any {
	switch d := c.Data.(type) {
	case nil:
		return payload
	case func(any) any:
		return d(payload)
	default:
		return d
	}
}

// RenderTemplate normalizes the template forms a PageConfig accepts into
// markup. Strings pass through untouched - string interpretation (if any)
// belongs to the Parser. Parser implementations and test doubles share this
// so the accepted forms never drift.
func RenderTemplate(ctx context.Context, template any, data any) (string, error) {
	switch t := template.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case func(any) string:
		return t(data), nil
	case templ.Component:
		var buf bytes.Buffer
		if err := t.Render(ctx, &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrBadTemplate, template)
	}
}
