package tvshell

import (
	"encoding/json"

	"github.com/a-h/templ"
)

// PageLink builds the declarative navigation attributes the default link
// handler consumes. Template authors emit the attributes instead of wiring
// handlers by hand:
//
//	<lockup { tvshell.Link("detail").Param("id", movie.ID).Attrs()... }>
type PageLink struct {
	page    string
	params  map[string]any
	replace bool
}

// Link starts a navigation attribute builder for the named page.
func Link(page string) *PageLink {
	return &PageLink{page: page}
}

// Param adds one invocation parameter, carried in the options-JSON attribute.
func (l *PageLink) Param(key string, value any) *PageLink {
	if l.params == nil {
		l.params = make(map[string]any)
	}
	l.params[key] = value
	return l
}

// Params merges a parameter map into the link.
func (l *PageLink) Params(params map[string]any) *PageLink {
	for k, v := range params {
		l.Param(k, v)
	}
	return l
}

// Replace marks the navigation as replacing the top of the stack.
func (l *PageLink) Replace() *PageLink {
	l.replace = true
	return l
}

// Attrs renders the builder into template attributes.
func (l *PageLink) Attrs() templ.Attributes {
	attrs := templ.Attributes{AttrPage: l.page}
	if len(l.params) > 0 {
		data, err := json.Marshal(l.params)
		if err == nil {
			attrs[AttrPageOptions] = string(data)
		}
	}
	if l.replace {
		attrs[AttrPageReplace] = "true"
	}
	return attrs
}

// DismissAttrs returns the attribute set that makes an element dismiss an
// open modal when selected.
func DismissAttrs() templ.Attributes {
	return templ.Attributes{AttrDismiss: dismissModal}
}

// ReloadAttrs returns the attribute set that forces a menu item to resolve
// its backing page again on the next selection.
func ReloadAttrs() templ.Attributes {
	return templ.Attributes{AttrReload: "true"}
}
