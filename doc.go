// Package tvshell provides a small application shell for declarative,
// document-based TV interfaces. It turns named page configurations into
// lazily rendered documents, wires and unwires event handlers declaratively,
// and keeps a side menu synchronized with the active page.
//
// tvshell does not implement a DOM, a template language, or a navigation
// stack. Those arrive as collaborators (Parser, Transport, Navigator,
// MenuBar) and the core drives them. Production implementations of the
// Parser and Transport collaborators live under adapters/.
//
// # Pages
//
// A page is described by a PageConfig and registered on an App:
//
//	app := tvshell.New(
//	    tvshell.WithParser(parser),
//	    tvshell.WithTransport(client),
//	    tvshell.WithNavigator(nav),
//	)
//
//	home := app.Create("home", &tvshell.PageConfig{
//	    Style:    "title { color: rgb(0,0,0); }",
//	    Template: `<document><alertTemplate><title>{{ .Title }}</title></alertTemplate></document>`,
//	    URL:      "https://api.example.com/home",
//	    Data: func(raw any) any {
//	        return map[string]any{"Title": raw.(map[string]any)["name"]}
//	    },
//	})
//
// Invoking the factory resolves the page to a rendered Document:
//
//	doc, err := home.Invoke(ctx, tvshell.CallOptions{})
//
// Resolution picks exactly one of three strategies, in priority order:
//
//  1. Ready - a custom resolver receiving continuations. Resolve(data)
//     builds a document from data, Suppress() resolves to no document at
//     all, and Reject(err) fails the invocation.
//  2. URL - the Transport collaborator fetches the response, which is
//     decoded per Options.ResponseType and fed to the template.
//  3. Neither - the document is built synchronously from Template and Data.
//
// A nil document with a nil error is a deliberate signal that rendering was
// suppressed; it is not a failure.
//
// # Events
//
// Pages declare handlers with event descriptors. A descriptor is an event
// name optionally followed by a CSS selector; with a selector the handler
// binds to every matching element, without one it binds to the document:
//
//	cfg := &tvshell.PageConfig{
//	    Events: map[string]tvshell.HandlerRefs{
//	        "select .movie": tvshell.Handlers(tvshell.ByName("onMovie")),
//	        "highlight":     tvshell.Handlers(tvshell.Direct(onHighlight)),
//	    },
//	    Handlers: map[string]tvshell.HandlerFunc{
//	        "onMovie": onMovie,
//	    },
//	}
//
// ByName references are resolved against the configuration's handler table
// at bind time, so handlers may be supplied after the events are declared.
// Handlers receive their owning configuration, letting them reach sibling
// fields the way a method reaches its receiver.
//
// A fixed set of document-level default handlers is always bound before any
// page-declared handler: link navigation driven by markup attributes
// (data-href-page, data-href-page-options, data-href-page-replace), modal
// dismissal (data-dismiss="modal"), and menu-item selection.
//
// # Menu
//
// Selecting a menuItem element carrying a data-href-page attribute resolves
// its backing page at most once per session, publishing a loading
// placeholder while resolution is in flight and an error placeholder when it
// fails. Setting a truthy data-reload attribute on the item forces
// re-resolution on the next selection.
package tvshell
