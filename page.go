package tvshell

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// PageFactory is the stored, invokable unit producing rendered documents for
// one named page. Factories are owned by the App that created them; callers
// hold references.
type PageFactory struct {
	app *App
	cfg *PageConfig
}

// Name returns the page name the factory was registered under.
func (f *PageFactory) Name() string {
	return f.cfg.Name
}

// Invoke resolves the page to a rendered document.
//
// The registered configuration is re-merged against the app defaults on
// every invocation, so invocations never share mutable state beyond the
// registry entry itself. A nil document with a nil error means rendering was
// deliberately suppressed (or a fetch failure was recovered by OnError); a
// non-nil error carries the raw failure payload.
func (f *PageFactory) Invoke(ctx context.Context, opts CallOptions) (Document, error) {
	cfg := f.app.invocationConfig(f.cfg)
	log := f.app.log.WithValues("page", cfg.Name, "invocation", uuid.NewString())

	switch {
	case cfg.Ready != nil:
		return f.app.resolveReady(ctx, log, cfg, opts)
	case cfg.URL != "":
		return f.app.resolveURL(ctx, log, cfg)
	default:
		return f.app.buildDocument(ctx, log, cfg, nil)
	}
}

// readyOutcome is the three-way result a Ready resolver settles on.
type readyOutcome struct {
	suppressed bool
	data       any
	err        error
}

// ReadyHandle carries the continuations handed to a ReadyFunc. Exactly one
// of Resolve, Suppress, or Reject settles the invocation; later calls are
// ignored. All three are safe to call from any goroutine.
type ReadyHandle struct {
	once sync.Once
	ch   chan readyOutcome
}

func newReadyHandle() *ReadyHandle {
	return &ReadyHandle{ch: make(chan readyOutcome, 1)}
}

// Resolve builds and prepares a document from data. A nil data value is
// allowed and builds the document from the template alone.
func (h *ReadyHandle) Resolve(data any) {
	h.settle(readyOutcome{data: data})
}

// Suppress resolves the invocation successfully with no document. This is
// the signal that rendering is deliberately skipped; it is not a failure.
func (h *ReadyHandle) Suppress() {
	h.settle(readyOutcome{suppressed: true})
}

// Reject fails the invocation with err as the failure payload.
func (h *ReadyHandle) Reject(err error) {
	if err == nil {
		err = ErrNoDocument
	}
	h.settle(readyOutcome{err: err})
}

func (h *ReadyHandle) settle(out readyOutcome) {
	h.once.Do(func() { h.ch <- out })
}

func (a *App) resolveReady(ctx context.Context, log logr.Logger, cfg *PageConfig, opts CallOptions) (Document, error) {
	h := newReadyHandle()
	cfg.Ready(ctx, opts, h)

	select {
	case out := <-h.ch:
		switch {
		case out.err != nil:
			log.V(1).Info("resolver rejected page", "error", out.err.Error())
			return nil, out.err
		case out.suppressed:
			log.V(1).Info("resolver suppressed rendering")
			return nil, nil
		default:
			return a.buildDocument(ctx, log, cfg, out.data)
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *App) resolveURL(ctx context.Context, log logr.Logger, cfg *PageConfig) (Document, error) {
	var payload any

	resp, err := a.fetch(ctx, cfg)
	if err == nil {
		payload, err = resp.Payload(cfg.Options.ResponseType)
	}
	if err != nil {
		if cfg.OnError != nil {
			log.V(1).Info("fetch failed, recovered by onError", "url", cfg.URL, "error", err.Error())
			cfg.OnError(err)
			return nil, nil
		}
		return nil, err
	}
	return a.buildDocument(ctx, log, cfg, payload)
}

func (a *App) fetch(ctx context.Context, cfg *PageConfig) (*Response, error) {
	if a.transport == nil {
		return nil, ErrNoTransport
	}
	resp, err := a.transport.Get(ctx, cfg.URL, cfg.Options)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrTransport, cfg.URL, resp.StatusCode)
	}
	return resp, nil
}

// buildDocument is the construction step every resolution strategy funnels
// into: transform the payload, render, style, bind, run afterReady, tag.
func (a *App) buildDocument(ctx context.Context, log logr.Logger, cfg *PageConfig, payload any) (Document, error) {
	if a.parser == nil {
		return nil, ErrNoParser
	}

	doc, err := a.parser.Parse(ctx, cfg.Template, cfg.dataFor(payload))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		log.V(1).Info("parser produced no document")
		return nil, nil
	}

	if cfg.Style != "" {
		doc.PrependStyle(cfg.Style)
	} else {
		log.V(1).Info("page has no style")
	}

	a.AddAll(doc, cfg)
	if cfg.AfterReady != nil {
		cfg.AfterReady(doc)
	}
	doc.SetPage(cfg)

	log.V(1).Info("page rendered")
	return doc, nil
}
