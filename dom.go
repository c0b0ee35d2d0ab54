package tvshell

// Declarative attribute names consumed from document markup. Markup authors
// set these on elements; the default handlers read them at dispatch time.
const (
	// AttrPage names the page a link or menu item resolves to.
	AttrPage = "data-href-page"

	// AttrPageOptions carries a JSON object of invocation parameters.
	// Malformed JSON degrades to an empty parameter set with a warning.
	AttrPageOptions = "data-href-page-options"

	// AttrPageReplace marks a navigation as replacing the top of the stack
	// instead of pushing onto it.
	AttrPageReplace = "data-href-page-replace"

	// AttrDismiss requests modal dismissal when its value is "modal".
	AttrDismiss = "data-dismiss"

	// AttrReload, set on a menu item, forces its backing page to resolve
	// again on the next selection despite a cached document.
	AttrReload = "data-reload"
)

// MenuItemTag is the element tag the menu-selection handler recognizes.
const MenuItemTag = "menuItem"

// EventSelect is the event class the default handlers listen for.
const EventSelect = "select"

// dismissModal is the AttrDismiss value that triggers modal dismissal.
const dismissModal = "modal"

// Event is a dispatched DOM event. Target is the element the event
// originated on; for document-level dispatch it may be nil.
type Event struct {
	Type   string
	Target Element
}

// Listener receives dispatched events. Implementations must be comparable
// (pointer receivers in practice) so that a listener added to a target can
// later be removed by identity.
type Listener interface {
	HandleEvent(ev Event)
}

// EventTarget is anything listeners can be attached to. Documents and
// elements both implement it.
type EventTarget interface {
	AddEventListener(event string, l Listener)
	RemoveEventListener(event string, l Listener)
	DispatchEvent(ev Event)
}

// Element is a single node of a rendered document.
type Element interface {
	EventTarget

	// Tag returns the element's tag name, e.g. "menuItem".
	Tag() string

	// Attr returns the named attribute and whether it is present.
	Attr(name string) (string, bool)
}

// Document is a rendered page document. The core never constructs one; the
// Parser collaborator does. Implementations must be comparable (pointers)
// because the engine keys per-document bookkeeping on the interface value.
type Document interface {
	EventTarget

	// Query returns every element matching the CSS selector. A malformed
	// selector returns an error; callers inside the engine degrade to an
	// empty target set rather than propagating it.
	Query(selector string) ([]Element, error)

	// PrependStyle inserts css at the front of the document's style
	// container, creating the container if the document has none.
	PrependStyle(css string)

	// Page returns the configuration this document was rendered from,
	// or nil before the document has been tagged.
	Page() *PageConfig

	// SetPage tags the document with its originating configuration.
	SetPage(cfg *PageConfig)
}

// attrBool reports whether an attribute is present with a truthy value.
// Absent attributes, empty strings, "false" and "0" are all false.
func attrBool(el Element, name string) bool {
	if el == nil {
		return false
	}
	v, ok := el.Attr(name)
	return ok && v != "" && v != "false" && v != "0"
}
