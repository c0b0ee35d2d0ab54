// Package htmldom provides the production Parser and Document collaborators
// backed by golang.org/x/net/html. String templates are interpreted as
// html/template sources with the sprig function map; CSS selector queries go
// through cascadia; events dispatch synchronously and bubble from an element
// to its ancestors and finally to the document.
//
//	parser := htmldom.NewParser()
//	app := tvshell.New(tvshell.WithParser(parser), ...)
package htmldom

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/tvshell/tvshell"
)

// Parser renders page templates into Documents.
type Parser struct {
	funcs template.FuncMap
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithFuncs adds template functions available to string templates, on top of
// the sprig set.
func WithFuncs(funcs template.FuncMap) ParserOption {
	return func(p *Parser) {
		for k, v := range funcs {
			p.funcs[k] = v
		}
	}
}

// NewParser creates a parser whose string templates carry the sprig
// function map.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{funcs: template.FuncMap(sprig.FuncMap())}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse renders the template with data and parses the resulting markup.
func (p *Parser) Parse(ctx context.Context, tmpl any, data any) (tvshell.Document, error) {
	markup, err := p.render(ctx, tmpl, data)
	if err != nil {
		return nil, err
	}
	return ParseDocument(markup)
}

func (p *Parser) render(ctx context.Context, tmpl any, data any) (string, error) {
	s, ok := tmpl.(string)
	if !ok {
		return tvshell.RenderTemplate(ctx, tmpl, data)
	}
	t, err := template.New("page").Funcs(p.funcs).Parse(s)
	if err != nil {
		return "", fmt.Errorf("htmldom: parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("htmldom: executing template: %w", err)
	}
	return buf.String(), nil
}

// Document is a parsed page document.
type Document struct {
	gq   *goquery.Document
	root *html.Node

	mu           sync.Mutex
	page         *tvshell.PageConfig
	elements     map[*html.Node]*Element
	listeners    map[*html.Node]map[string][]tvshell.Listener
	docListeners map[string][]tvshell.Listener
}

// ParseDocument parses raw markup into a Document.
func ParseDocument(markup string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("htmldom: parsing markup: %w", err)
	}
	return &Document{
		gq:           gq,
		root:         gq.Selection.Nodes[0],
		elements:     make(map[*html.Node]*Element),
		listeners:    make(map[*html.Node]map[string][]tvshell.Listener),
		docListeners: make(map[string][]tvshell.Listener),
	}, nil
}

// Query returns every element matching the CSS selector. Malformed selectors
// return an error rather than panicking, so the engine can degrade.
func (d *Document) Query(selector string) ([]tvshell.Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: compiling selector %q: %w", selector, err)
	}
	var out []tvshell.Element
	for _, node := range matcher.MatchAll(d.root) {
		out = append(out, d.element(node))
	}
	return out, nil
}

// element returns the stable wrapper for a node, creating it on first use.
// Stability matters: callers key caches on Element identity.
func (d *Document) element(node *html.Node) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if el, ok := d.elements[node]; ok {
		return el
	}
	el := &Element{doc: d, node: node}
	d.elements[node] = el
	return el
}

// PrependStyle inserts css at the front of the document's style element,
// creating one in the head if the document has none.
func (d *Document) PrependStyle(css string) {
	head := d.gq.Find("head")
	style := head.Find("style")
	if style.Length() == 0 {
		head.PrependHtml("<style></style>")
		style = head.Find("style")
	}
	existing := style.First().Text()
	if existing == "" {
		style.First().SetText(css)
		return
	}
	style.First().SetText(css + "\n" + existing)
}

// Page returns the tagged configuration, or nil.
func (d *Document) Page() *tvshell.PageConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// SetPage tags the document with its originating configuration.
func (d *Document) SetPage(cfg *tvshell.PageConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = cfg
}

// AddEventListener attaches a document-level listener. Events dispatched on
// any element bubble here.
func (d *Document) AddEventListener(event string, l tvshell.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docListeners[event] = append(d.docListeners[event], l)
}

// RemoveEventListener removes a document-level listener by identity.
func (d *Document) RemoveEventListener(event string, l tvshell.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docListeners[event] = removeListener(d.docListeners[event], l)
}

// DispatchEvent invokes document-level listeners synchronously.
func (d *Document) DispatchEvent(ev tvshell.Event) {
	for _, l := range d.snapshotDoc(ev.Type) {
		l.HandleEvent(ev)
	}
}

// Markup renders the document back to markup, styles and all.
func (d *Document) Markup() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("htmldom: rendering markup: %w", err)
	}
	return buf.String(), nil
}

func (d *Document) addListener(node *html.Node, event string, l tvshell.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners[node] == nil {
		d.listeners[node] = make(map[string][]tvshell.Listener)
	}
	d.listeners[node][event] = append(d.listeners[node][event], l)
}

func (d *Document) removeNodeListener(node *html.Node, event string, l tvshell.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners[node] == nil {
		return
	}
	d.listeners[node][event] = removeListener(d.listeners[node][event], l)
}

// bubble delivers an event from node through its ancestors, then to the
// document-level listeners.
func (d *Document) bubble(node *html.Node, ev tvshell.Event) {
	for n := node; n != nil; n = n.Parent {
		for _, l := range d.snapshotNode(n, ev.Type) {
			l.HandleEvent(ev)
		}
	}
	d.DispatchEvent(ev)
}

func (d *Document) snapshotNode(node *html.Node, event string) []tvshell.Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners[node] == nil {
		return nil
	}
	out := make([]tvshell.Listener, len(d.listeners[node][event]))
	copy(out, d.listeners[node][event])
	return out
}

func (d *Document) snapshotDoc(event string) []tvshell.Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]tvshell.Listener, len(d.docListeners[event]))
	copy(out, d.docListeners[event])
	return out
}

func removeListener(ls []tvshell.Listener, l tvshell.Listener) []tvshell.Listener {
	kept := ls[:0]
	for _, have := range ls {
		if have != l {
			kept = append(kept, have)
		}
	}
	return kept
}

// Element is a single node of a parsed document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute on the element, overwriting a previous value.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// AddEventListener attaches a listener for the named event.
func (e *Element) AddEventListener(event string, l tvshell.Listener) {
	e.doc.addListener(e.node, event, l)
}

// RemoveEventListener removes a previously attached listener by identity.
func (e *Element) RemoveEventListener(event string, l tvshell.Listener) {
	e.doc.removeNodeListener(e.node, event, l)
}

// DispatchEvent delivers the event to this element's listeners and bubbles
// it up to the document. An empty Target is filled with the element itself.
func (e *Element) DispatchEvent(ev tvshell.Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	e.doc.bubble(e.node, ev)
}
