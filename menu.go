package tvshell

import (
	"context"
	"fmt"
	"strings"
)

// handleMenuSelect lazily resolves the backing page of a selected menu item.
//
// A page is resolved at most once per item: once a document is cached for
// the item, further selections are no-ops unless the item carries a truthy
// reload attribute at selection time. While resolution is in flight a
// loading placeholder occupies the item's menu slot; failures (and
// resolutions that produced no document) publish an error placeholder
// instead. Either way any open modal is dismissed afterwards.
func (a *App) handleMenuSelect(ev Event) {
	item := ev.Target
	// HTML-backed parsers lowercase tag names, so compare loosely.
	if item == nil || !strings.EqualFold(item.Tag(), MenuItemTag) {
		return
	}
	page, ok := item.Attr(AttrPage)
	if !ok || page == "" {
		return
	}
	if _, cached := a.menuDoc(item); cached && !attrBool(item, AttrReload) {
		return
	}
	if a.menubar == nil || a.nav == nil {
		a.log.Info("menu selection ignored, menu bar or navigator not configured", "page", page)
		return
	}

	a.menubar.Publish(item, a.nav.LoaderDoc(fmt.Sprintf("Loading %s...", page)))

	factory, ok := a.Get(page)
	if !ok {
		a.publishMenuError(item, fmt.Errorf("%w: %s", ErrPageNotFound, page))
		return
	}

	opts := CallOptions{Params: a.paramsFromAttr(item, page)}
	doc, err := factory.Invoke(context.Background(), opts)
	if err != nil {
		a.publishMenuError(item, err)
		return
	}
	if doc == nil {
		// A suppressed render still surfaces as an error at the menu
		// level: the slot must show something.
		a.publishMenuError(item, fmt.Errorf("%w: %s", ErrNoDocument, page))
		return
	}

	a.setMenuDoc(item, doc)
	a.menubar.Publish(item, doc)
	a.nav.DismissModal()
}

func (a *App) publishMenuError(item Element, err error) {
	a.log.Info("publishing menu error placeholder", "error", err.Error())
	a.menubar.Publish(item, a.nav.ErrorDoc(err))
	a.nav.DismissModal()
}

// menuDoc returns the cached document for a menu item, if one has been
// resolved this session.
func (a *App) menuDoc(item Element) (Document, bool) {
	a.mmu.Lock()
	defer a.mmu.Unlock()
	doc, ok := a.menuDocs[item]
	return doc, ok
}

func (a *App) setMenuDoc(item Element, doc Document) {
	a.mmu.Lock()
	defer a.mmu.Unlock()
	a.menuDocs[item] = doc
}
