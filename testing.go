package tvshell

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// This file provides an in-memory DOM and collaborator doubles for testing
// page configurations without a real document engine. The doubles implement
// the same collaborator interfaces production adapters do, so a page
// exercised here behaves identically when wired to adapters/htmldom and
// adapters/httpclient.

// TestElement is an in-memory Element with synchronous event dispatch.
// Events dispatched on an element bubble to the owning TestDocument.
type TestElement struct {
	tag string

	mu        sync.Mutex
	attrs     map[string]string
	listeners map[string][]Listener
	doc       *TestDocument
}

// NewTestElement creates an element with the given tag and alternating
// attribute key/value pairs.
func NewTestElement(tag string, attrPairs ...string) *TestElement {
	e := &TestElement{
		tag:       tag,
		attrs:     make(map[string]string),
		listeners: make(map[string][]Listener),
	}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		e.attrs[attrPairs[i]] = attrPairs[i+1]
	}
	return e
}

// Tag returns the element's tag name.
func (e *TestElement) Tag() string { return e.tag }

// Attr returns the named attribute and whether it is present.
func (e *TestElement) Attr(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute, overwriting any previous value.
func (e *TestElement) SetAttr(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute.
func (e *TestElement) RemoveAttr(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attrs, name)
}

// AddEventListener attaches a listener for the named event.
func (e *TestElement) AddEventListener(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], l)
}

// RemoveEventListener removes a previously attached listener by identity.
func (e *TestElement) RemoveEventListener(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.listeners[event][:0]
	for _, have := range e.listeners[event] {
		if have != l {
			kept = append(kept, have)
		}
	}
	e.listeners[event] = kept
}

// DispatchEvent invokes the element's listeners synchronously, then bubbles
// the event to the owning document. An empty Target is filled in with the
// element itself.
func (e *TestElement) DispatchEvent(ev Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	for _, l := range e.snapshot(ev.Type) {
		l.HandleEvent(ev)
	}
	e.mu.Lock()
	doc := e.doc
	e.mu.Unlock()
	if doc != nil {
		doc.DispatchEvent(ev)
	}
}

func (e *TestElement) snapshot(event string) []Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Listener, len(e.listeners[event]))
	copy(out, e.listeners[event])
	return out
}

// TestDocument is an in-memory Document. Elements appended to it are
// reachable through Query with a deliberately small selector dialect:
// "tag", ".class" and "#id". Anything else is a malformed selector and
// returns an error, which the engine degrades to an empty target set.
type TestDocument struct {
	// Markup is whatever the TestParser rendered, kept for assertions.
	Markup string

	mu        sync.Mutex
	elements  []*TestElement
	styles    []string
	listeners map[string][]Listener
	page      *PageConfig
}

// NewTestDocument creates an empty document.
func NewTestDocument() *TestDocument {
	return &TestDocument{listeners: make(map[string][]Listener)}
}

// Append adds elements to the document and adopts them so their events
// bubble here.
func (d *TestDocument) Append(els ...*TestElement) *TestDocument {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range els {
		el.mu.Lock()
		el.doc = d
		el.mu.Unlock()
		d.elements = append(d.elements, el)
	}
	return d
}

// Query matches appended elements against the test selector dialect.
func (d *TestDocument) Query(selector string) ([]Element, error) {
	match, err := compileTestSelector(selector)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Element
	for _, el := range d.elements {
		if match(el) {
			out = append(out, el)
		}
	}
	return out, nil
}

// PrependStyle records css at the front of the document's style list.
func (d *TestDocument) PrependStyle(css string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.styles = append([]string{css}, d.styles...)
}

// Styles returns the recorded styles, most recently prepended first.
func (d *TestDocument) Styles() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.styles))
	copy(out, d.styles)
	return out
}

// Page returns the tagged configuration, or nil.
func (d *TestDocument) Page() *PageConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// SetPage tags the document with its configuration.
func (d *TestDocument) SetPage(cfg *PageConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = cfg
}

// AddEventListener attaches a document-level listener.
func (d *TestDocument) AddEventListener(event string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], l)
}

// RemoveEventListener removes a document-level listener by identity.
func (d *TestDocument) RemoveEventListener(event string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.listeners[event][:0]
	for _, have := range d.listeners[event] {
		if have != l {
			kept = append(kept, have)
		}
	}
	d.listeners[event] = kept
}

// DispatchEvent invokes document-level listeners synchronously.
func (d *TestDocument) DispatchEvent(ev Event) {
	d.mu.Lock()
	ls := make([]Listener, len(d.listeners[ev.Type]))
	copy(ls, d.listeners[ev.Type])
	d.mu.Unlock()
	for _, l := range ls {
		l.HandleEvent(ev)
	}
}

// compileTestSelector understands "tag", ".class" and "#id".
func compileTestSelector(selector string) (func(*TestElement) bool, error) {
	switch {
	case selector == "":
		return nil, fmt.Errorf("empty selector")
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		if class == "" || strings.ContainsAny(class, " .#") {
			return nil, fmt.Errorf("malformed selector %q", selector)
		}
		return func(e *TestElement) bool {
			v, _ := e.Attr("class")
			for _, word := range strings.Fields(v) {
				if word == class {
					return true
				}
			}
			return false
		}, nil
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		if id == "" || strings.ContainsAny(id, " .#") {
			return nil, fmt.Errorf("malformed selector %q", selector)
		}
		return func(e *TestElement) bool {
			v, _ := e.Attr("id")
			return v == id
		}, nil
	case isTestTagName(selector):
		return func(e *TestElement) bool { return e.tag == selector }, nil
	default:
		return nil, fmt.Errorf("malformed selector %q", selector)
	}
}

func isTestTagName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return s != ""
}

// TestParser is a Parser double. It renders the template through
// RenderTemplate into a fresh TestDocument and records what it saw.
type TestParser struct {
	// Err, when set, fails every Parse call.
	Err error

	// Build, when set, supplies the document returned for each Parse.
	// Lets tests pre-populate documents with elements.
	Build func() *TestDocument

	mu           sync.Mutex
	parsed       int
	lastTemplate any
	lastData     any
}

func (p *TestParser) Parse(ctx context.Context, template any, data any) (Document, error) {
	p.mu.Lock()
	p.parsed++
	p.lastTemplate = template
	p.lastData = data
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	markup, err := RenderTemplate(ctx, template, data)
	if err != nil {
		return nil, err
	}
	doc := NewTestDocument()
	if p.Build != nil {
		doc = p.Build()
	}
	doc.Markup = markup
	return doc, nil
}

// Parsed returns how many times Parse ran.
func (p *TestParser) Parsed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parsed
}

// LastData returns the transformed data from the most recent Parse.
func (p *TestParser) LastData() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastData
}

// TransportCall records one StubTransport request.
type TransportCall struct {
	URL     string
	Options Options
}

// StubTransport is a Transport double returning a canned response or error.
type StubTransport struct {
	Response *Response
	Err      error

	mu    sync.Mutex
	calls []TransportCall
}

func (s *StubTransport) Get(ctx context.Context, url string, opts Options) (*Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, TransportCall{URL: url, Options: opts})
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Response == nil {
		return &Response{StatusCode: 200}, nil
	}
	return s.Response, nil
}

// Calls returns the recorded requests.
func (s *StubTransport) Calls() []TransportCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TransportCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Navigation records one TestNavigator.Navigate call.
type Navigation struct {
	Page    string
	Options CallOptions
	Replace bool
}

// TestNavigator is a Navigator double recording navigation requests and
// modal dismissals. Loader and error placeholders are TestDocuments whose
// Markup identifies them.
type TestNavigator struct {
	// NavigateErr, when set, is returned from every Navigate call.
	NavigateErr error

	mu          sync.Mutex
	navigations []Navigation
	dismissed   int
}

func (n *TestNavigator) Navigate(ctx context.Context, page string, opts CallOptions, replace bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navigations = append(n.navigations, Navigation{Page: page, Options: opts, Replace: replace})
	return n.NavigateErr
}

func (n *TestNavigator) DismissModal() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dismissed++
}

func (n *TestNavigator) LoaderDoc(message string) Document {
	doc := NewTestDocument()
	doc.Markup = "loader: " + message
	return doc
}

func (n *TestNavigator) ErrorDoc(err error) Document {
	doc := NewTestDocument()
	doc.Markup = "error: " + err.Error()
	return doc
}

// Navigations returns the recorded navigation requests.
func (n *TestNavigator) Navigations() []Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Navigation, len(n.navigations))
	copy(out, n.navigations)
	return out
}

// Dismissed returns how many times DismissModal ran.
func (n *TestNavigator) Dismissed() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dismissed
}

// MenuPublish records one TestMenuBar.Publish call.
type MenuPublish struct {
	Item Element
	Doc  Document
}

// TestMenuBar is a MenuBar double recording publications per item.
type TestMenuBar struct {
	mu        sync.Mutex
	published []MenuPublish
}

func (m *TestMenuBar) Publish(item Element, doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, MenuPublish{Item: item, Doc: doc})
}

// Published returns every publication in order.
func (m *TestMenuBar) Published() []MenuPublish {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MenuPublish, len(m.published))
	copy(out, m.published)
	return out
}

// DocFor returns the most recent document published for item, or nil.
func (m *TestMenuBar) DocFor(item Element) Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.published) - 1; i >= 0; i-- {
		if m.published[i].Item == item {
			return m.published[i].Doc
		}
	}
	return nil
}
