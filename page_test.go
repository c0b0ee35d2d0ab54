package tvshell

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInvokeReadySuppress(t *testing.T) {
	parser := &TestParser{}
	app := New(WithParser(parser))
	f := app.Create("p", &PageConfig{
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			h.Suppress()
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v, want suppressed render to resolve", err)
	}
	if doc != nil {
		t.Errorf("Invoke() doc = %v, want nil for suppressed render", doc)
	}
	if parser.Parsed() != 0 {
		t.Error("parser ran for a suppressed render")
	}
}

func TestInvokeReadyReject(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	want := errors.New("x")
	f := app.Create("p", &PageConfig{
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			h.Reject(want)
		},
	})

	_, err := f.Invoke(context.Background(), CallOptions{})
	if !errors.Is(err, want) {
		t.Errorf("Invoke() error = %v, want the rejection payload %v", err, want)
	}
}

func TestInvokeReadyResolve(t *testing.T) {
	parser := &TestParser{}
	app := New(WithParser(parser))
	f := app.Create("p", &PageConfig{
		Template: func(data any) string { return "rendered" },
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			h.Resolve(map[string]any{"title": opts.Params["title"]})
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{Params: map[string]any{"title": "hi"}})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if doc == nil {
		t.Fatal("Invoke() returned no document")
	}
	data, ok := parser.LastData().(map[string]any)
	if !ok || data["title"] != "hi" {
		t.Errorf("parser data = %v, want resolver payload", parser.LastData())
	}
}

func TestInvokeReadyAsync(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	f := app.Create("p", &PageConfig{
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			go func() {
				time.Sleep(5 * time.Millisecond)
				h.Resolve(nil)
			}()
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if doc == nil {
		t.Fatal("Invoke() returned no document for async resolve")
	}
}

func TestInvokeReadyFirstContinuationWins(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	f := app.Create("p", &PageConfig{
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			h.Suppress()
			h.Reject(errors.New("late"))
			h.Resolve("late")
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil || doc != nil {
		t.Errorf("Invoke() = (%v, %v), want first continuation (suppress) to win", doc, err)
	}
}

func TestInvokeReadyContextCancelled(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	f := app.Create("p", &PageConfig{
		Ready: func(ctx context.Context, opts CallOptions, h *ReadyHandle) {
			// Never settles.
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Invoke(ctx, CallOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Invoke() error = %v, want context cancellation", err)
	}
}

func TestInvokeURL(t *testing.T) {
	parser := &TestParser{}
	transport := &StubTransport{Response: &Response{
		StatusCode: 200,
		Body:       []byte(`{"name":"drama"}`),
	}}
	app := New(WithParser(parser), WithTransport(transport))
	f := app.Create("p", &PageConfig{
		URL: "/genres",
		Data: func(raw any) any {
			return raw.(map[string]any)["name"]
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if doc == nil {
		t.Fatal("Invoke() returned no document")
	}
	if parser.LastData() != "drama" {
		t.Errorf("parser data = %v, want transformed payload", parser.LastData())
	}
	calls := transport.Calls()
	if len(calls) != 1 || calls[0].URL != "/genres" {
		t.Errorf("transport calls = %v, want a single fetch of /genres", calls)
	}
}

func TestInvokeURLTextResponse(t *testing.T) {
	parser := &TestParser{}
	transport := &StubTransport{Response: &Response{StatusCode: 200, Body: []byte("plain")}}
	app := New(WithParser(parser), WithTransport(transport))
	f := app.Create("p", &PageConfig{
		URL:     "/raw",
		Options: Options{ResponseType: ResponseText},
	})

	if _, err := f.Invoke(context.Background(), CallOptions{}); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if parser.LastData() != "plain" {
		t.Errorf("parser data = %v, want raw text payload", parser.LastData())
	}
}

func TestInvokeURLFailureRecoveredByOnError(t *testing.T) {
	want := errors.New("boom")
	var got error
	app := New(
		WithParser(&TestParser{}),
		WithTransport(&StubTransport{Err: want}),
	)
	f := app.Create("p", &PageConfig{
		URL:     "/x",
		OnError: func(err error) { got = err },
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v, want onError to recover the failure", err)
	}
	if doc != nil {
		t.Errorf("Invoke() doc = %v, want no document on recovered failure", doc)
	}
	if !errors.Is(got, want) {
		t.Errorf("onError received %v, want the raw failure %v", got, want)
	}
}

func TestInvokeURLFailurePropagates(t *testing.T) {
	want := errors.New("boom")
	app := New(WithParser(&TestParser{}), WithTransport(&StubTransport{Err: want}))
	f := app.Create("p", &PageConfig{URL: "/x"})

	_, err := f.Invoke(context.Background(), CallOptions{})
	if !errors.Is(err, want) {
		t.Errorf("Invoke() error = %v, want raw transport failure", err)
	}
}

func TestInvokeURLBadStatus(t *testing.T) {
	app := New(
		WithParser(&TestParser{}),
		WithTransport(&StubTransport{Response: &Response{StatusCode: 502}}),
	)
	f := app.Create("p", &PageConfig{URL: "/x"})

	_, err := f.Invoke(context.Background(), CallOptions{})
	if !IsTransportError(err) {
		t.Errorf("Invoke() error = %v, want transport error for non-2xx status", err)
	}
}

func TestInvokeURLWithoutTransport(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	f := app.Create("p", &PageConfig{URL: "/x"})

	_, err := f.Invoke(context.Background(), CallOptions{})
	if !errors.Is(err, ErrNoTransport) {
		t.Errorf("Invoke() error = %v, want %v", err, ErrNoTransport)
	}
}

func TestInvokeWithoutParser(t *testing.T) {
	app := New()
	f := app.Create("p", &PageConfig{Template: "markup"})

	_, err := f.Invoke(context.Background(), CallOptions{})
	if !errors.Is(err, ErrNoParser) {
		t.Errorf("Invoke() error = %v, want %v", err, ErrNoParser)
	}
}

func TestInvokeSynchronous(t *testing.T) {
	parser := &TestParser{}
	app := New(WithParser(parser))
	f := app.Create("p", &PageConfig{
		Template: func(data any) string { return "hello " + data.(string) },
		Data:     "world",
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	td, ok := doc.(*TestDocument)
	if !ok {
		t.Fatalf("doc = %T, want *TestDocument", doc)
	}
	if td.Markup != "hello world" {
		t.Errorf("Markup = %q, want literal data fed to template", td.Markup)
	}
}

func TestInvokePreparesDocument(t *testing.T) {
	var afterReady Document
	parser := &TestParser{}
	app := New(WithParser(parser))
	cfg := &PageConfig{
		Style:      "title { color: red; }",
		Template:   "markup",
		AfterReady: func(doc Document) { afterReady = doc },
	}
	f := app.Create("p", cfg)

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	td := doc.(*TestDocument)
	styles := td.Styles()
	if len(styles) != 1 || styles[0] != cfg.Style {
		t.Errorf("Styles() = %v, want configured style prepended", styles)
	}
	if afterReady != doc {
		t.Error("afterReady did not receive the rendered document")
	}
	page := doc.Page()
	if page == nil || page.Name != "p" {
		t.Errorf("Page() = %+v, want document tagged with its configuration", page)
	}
}

func TestInvokeAppliesRetroactiveDefaults(t *testing.T) {
	parser := &TestParser{}
	app := New(WithParser(parser))
	f := app.Create("p", &PageConfig{Template: "markup"})

	// Defaults set after registration still apply to later invocations.
	app.SetDefaults(&PageConfig{Style: "default-style"})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	styles := doc.(*TestDocument).Styles()
	if len(styles) != 1 || styles[0] != "default-style" {
		t.Errorf("Styles() = %v, want app default applied retroactively", styles)
	}
}

func TestInvokeConfigFieldsWinOverDefaults(t *testing.T) {
	parser := &TestParser{}
	app := New(WithParser(parser))
	app.SetDefaults(&PageConfig{Style: "default-style"})
	f := app.Create("p", &PageConfig{Template: "markup", Style: "own-style"})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	styles := doc.(*TestDocument).Styles()
	if len(styles) != 1 || styles[0] != "own-style" {
		t.Errorf("Styles() = %v, want page configuration to win over defaults", styles)
	}
}

func TestSetDefaultsLaterCallWins(t *testing.T) {
	app := New(WithParser(&TestParser{}))
	app.SetDefaults(&PageConfig{Style: "first", URL: "/keep"})
	app.SetDefaults(&PageConfig{Style: "second"})

	cfg := app.invocationConfig(&PageConfig{})
	if cfg.Style != "second" {
		t.Errorf("Style = %q, want the later default", cfg.Style)
	}
	if cfg.URL != "/keep" {
		t.Errorf("URL = %q, want earlier default retained where unset", cfg.URL)
	}
}

func TestInvokeBindsDeclaredEvents(t *testing.T) {
	var fired int
	parser := &TestParser{}
	app := New(WithParser(parser))
	f := app.Create("p", &PageConfig{
		Template: "markup",
		Events: map[string]HandlerRefs{
			"play": Handlers(Direct(func(cfg *PageConfig, ev Event) { fired++ })),
		},
	})

	doc, err := f.Invoke(context.Background(), CallOptions{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	doc.DispatchEvent(Event{Type: "play"})
	if fired != 1 {
		t.Errorf("fired %d times, want declared events bound during the pipeline", fired)
	}
}
