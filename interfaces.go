package tvshell

import "context"

// Parser turns a template plus transformed data into a Document.
//
// The template is one of:
//   - string: raw or adapter-interpreted markup
//   - func(any) string: invoked with the transformed data
//   - templ.Component: rendered with the transformed data ignored
//
// See RenderTemplate for the shared normalization adapters can reuse.
// The production implementation lives in adapters/htmldom.
type Parser interface {
	Parse(ctx context.Context, template any, data any) (Document, error)
}

// Navigator is the navigation-stack collaborator. The core never touches the
// stack directly; the default handlers and the menu component call through
// this interface.
type Navigator interface {
	// Navigate requests navigation to a named page. When replace is true
	// the current top of the stack is replaced instead of pushed over.
	Navigate(ctx context.Context, page string, opts CallOptions, replace bool) error

	// DismissModal dismisses any open modal. A no-op when none is open.
	DismissModal()

	// LoaderDoc builds a loading placeholder document.
	LoaderDoc(message string) Document

	// ErrorDoc builds an error placeholder document from a failure payload.
	ErrorDoc(err error) Document
}

// MenuBar publishes resolved documents into a menu item's slot.
type MenuBar interface {
	Publish(item Element, doc Document)
}
