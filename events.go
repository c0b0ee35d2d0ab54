package tvshell

import (
	"context"
	"encoding/json"
	"strings"
)

// HandlerRef references an event handler either directly or by the name of
// an entry in the configuration's handler table. ByName references resolve
// at bind time, not at configuration time, so the table may be filled in
// after the events are declared.
type HandlerRef struct {
	fn   HandlerFunc
	name string
}

// Direct wraps a handler function.
func Direct(fn HandlerFunc) HandlerRef {
	return HandlerRef{fn: fn}
}

// ByName references a handler stored under name in PageConfig.Handlers.
func ByName(name string) HandlerRef {
	return HandlerRef{name: name}
}

// resolve returns the callable behind the reference, or nil when the name
// is absent from the table.
func (r HandlerRef) resolve(cfg *PageConfig) HandlerFunc {
	if r.fn != nil {
		return r.fn
	}
	return cfg.Handlers[r.name]
}

func (r HandlerRef) describe() string {
	if r.name != "" {
		return r.name
	}
	return "direct"
}

// HandlerRefs is the ordered handler list bound for one event descriptor.
type HandlerRefs []HandlerRef

// Handlers builds a HandlerRefs list.
func Handlers(refs ...HandlerRef) HandlerRefs {
	return HandlerRefs(refs)
}

type bindMode int

const (
	bindAttach bindMode = iota
	bindDetach
)

// binding records one attached listener so a later detach removes the exact
// instance. owner is nil for the default handlers.
type binding struct {
	owner    *PageConfig
	target   EventTarget
	event    string
	listener Listener
}

// boundListener adapts a HandlerFunc to the Listener interface, carrying the
// owning configuration as the handler's receiver context.
type boundListener struct {
	cfg *PageConfig
	fn  HandlerFunc
}

func (b *boundListener) HandleEvent(ev Event) {
	b.fn(b.cfg, ev)
}

// AddAll attaches the default document-level handlers followed by the
// configuration-declared ones. A nil document is a no-op.
func (a *App) AddAll(doc Document, cfg *PageConfig) {
	if doc == nil {
		return
	}
	a.bindDefaults(doc, bindAttach)
	a.bind(doc, cfg, bindAttach)
}

// RemoveAll detaches everything AddAll attached, defaults first. Detachment
// works per document instance: only listeners recorded for doc are touched.
func (a *App) RemoveAll(doc Document, cfg *PageConfig) {
	if doc == nil {
		return
	}
	a.bindDefaults(doc, bindDetach)
	a.bind(doc, cfg, bindDetach)
}

// bindDefaults attaches or detaches the always-present handlers: link
// navigation, modal dismissal, and menu selection.
func (a *App) bindDefaults(doc Document, mode bindMode) {
	if mode == bindDetach {
		a.removeRecorded(doc, nil)
		return
	}
	for _, l := range []Listener{
		&linkListener{app: a},
		&dismissListener{app: a},
		&menuListener{app: a},
	} {
		doc.AddEventListener(EventSelect, l)
		a.record(doc, binding{target: doc, event: EventSelect, listener: l})
	}
}

// bind attaches or detaches the configuration's declared handlers. All
// entries of the event map are processed within one call; iteration order
// across calls is not significant.
func (a *App) bind(doc Document, cfg *PageConfig, mode bindMode) {
	if cfg == nil {
		return
	}
	if mode == bindDetach {
		a.removeRecorded(doc, cfg)
		return
	}

	for desc, refs := range cfg.Events {
		event, selector := splitDescriptor(desc)
		if event == "" {
			continue
		}
		targets := a.targetsFor(doc, cfg, selector)
		for _, ref := range refs {
			fn := ref.resolve(cfg)
			if fn == nil {
				a.log.Info("skipping unresolvable event handler",
					"page", cfg.Name, "descriptor", desc, "handler", ref.describe())
				continue
			}
			for _, t := range targets {
				l := &boundListener{cfg: cfg, fn: fn}
				t.AddEventListener(event, l)
				a.record(doc, binding{owner: cfg, target: t, event: event, listener: l})
			}
		}
	}
}

// splitDescriptor splits "select .item" into the event name and optional
// CSS selector on the first space.
func splitDescriptor(desc string) (event, selector string) {
	event, selector, _ = strings.Cut(desc, " ")
	return event, strings.TrimSpace(selector)
}

// targetsFor resolves a descriptor's target set. No selector means the
// document itself; a failing query degrades to an empty set with a warning.
func (a *App) targetsFor(doc Document, cfg *PageConfig, selector string) []EventTarget {
	if selector == "" {
		return []EventTarget{doc}
	}
	els, err := doc.Query(selector)
	if err != nil {
		a.log.Info("selector did not resolve, binding nothing",
			"page", cfg.Name, "selector", selector, "error", err.Error())
		return nil
	}
	targets := make([]EventTarget, 0, len(els))
	for _, el := range els {
		targets = append(targets, el)
	}
	return targets
}

func (a *App) record(doc Document, b binding) {
	a.bmu.Lock()
	defer a.bmu.Unlock()
	a.bindings[doc] = append(a.bindings[doc], b)
}

// removeRecorded detaches and forgets every binding on doc whose owner
// matches (nil owner selects the defaults).
func (a *App) removeRecorded(doc Document, owner *PageConfig) {
	a.bmu.Lock()
	defer a.bmu.Unlock()

	kept := a.bindings[doc][:0]
	for _, b := range a.bindings[doc] {
		if b.owner == owner {
			b.target.RemoveEventListener(b.event, b.listener)
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		delete(a.bindings, doc)
		return
	}
	a.bindings[doc] = kept
}

// linkListener is the default navigation handler: any selected element
// carrying a page-name attribute requests navigation. Menu items are left to
// the menu handler.
type linkListener struct {
	app *App
}

func (l *linkListener) HandleEvent(ev Event) {
	t := ev.Target
	if t == nil || strings.EqualFold(t.Tag(), MenuItemTag) {
		return
	}
	page, ok := t.Attr(AttrPage)
	if !ok || page == "" {
		return
	}
	if l.app.nav == nil {
		l.app.log.Info("no navigator configured, dropping navigation", "page", page)
		return
	}
	replace := attrBool(t, AttrPageReplace)
	opts := CallOptions{Replace: replace, Params: l.app.paramsFromAttr(t, page)}
	if err := l.app.nav.Navigate(context.Background(), page, opts, replace); err != nil {
		l.app.log.Error(err, "navigation failed", "page", page)
	}
}

// paramsFromAttr parses the options-JSON attribute. Malformed JSON degrades
// to an empty parameter set with a warning, never a failure.
func (a *App) paramsFromAttr(el Element, page string) map[string]any {
	raw, ok := el.Attr(AttrPageOptions)
	if !ok || raw == "" {
		return map[string]any{}
	}
	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		a.log.Info("malformed page options attribute, using empty options",
			"page", page, "error", err.Error())
		return map[string]any{}
	}
	return params
}

// dismissListener dismisses an open modal when the selected element declares
// the dismiss attribute.
type dismissListener struct {
	app *App
}

func (l *dismissListener) HandleEvent(ev Event) {
	if ev.Target == nil {
		return
	}
	if v, ok := ev.Target.Attr(AttrDismiss); !ok || v != dismissModal {
		return
	}
	if l.app.nav != nil {
		l.app.nav.DismissModal()
	}
}

// menuListener routes menu-item selections to the menu component.
type menuListener struct {
	app *App
}

func (l *menuListener) HandleEvent(ev Event) {
	l.app.handleMenuSelect(ev)
}
