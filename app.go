package tvshell

import (
	"sync"

	"github.com/go-logr/logr"
)

// App is the application context: it owns the page registry, the layered
// configuration defaults, event-binding bookkeeping, the menu cache, and the
// collaborator wiring. All state that would otherwise be process-wide lives
// here so independent Apps never leak into each other.
type App struct {
	log       logr.Logger
	parser    Parser
	transport Transport
	nav       Navigator
	menubar   MenuBar

	mu       sync.RWMutex
	pages    map[string]*PageFactory
	defaults PageConfig

	bmu      sync.Mutex
	bindings map[Document][]binding

	mmu      sync.Mutex
	menuDocs map[Element]Document
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Warning conditions (duplicate registrations,
// malformed attributes, unresolvable selectors) are reported through it and
// never fail an operation. Defaults to a discard logger.
func WithLogger(log logr.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithParser sets the template/parser collaborator.
func WithParser(p Parser) Option {
	return func(a *App) { a.parser = p }
}

// WithTransport sets the request transport used for URL-driven pages.
func WithTransport(t Transport) Option {
	return func(a *App) { a.transport = t }
}

// WithNavigator sets the navigation-stack collaborator consumed by the
// default handlers and the menu component.
func WithNavigator(n Navigator) Option {
	return func(a *App) { a.nav = n }
}

// WithMenuBar sets the menu publication collaborator.
func WithMenuBar(m MenuBar) Option {
	return func(a *App) { a.menubar = m }
}

// New creates an application context.
func New(opts ...Option) *App {
	a := &App{
		log:      logr.Discard(),
		pages:    make(map[string]*PageFactory),
		bindings: make(map[Document][]binding),
		menuDocs: make(map[Element]Document),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// SetDefaults layers cfg into the app-wide page defaults. Fields cfg sets
// win over earlier defaults; fields it leaves unset retain their previous
// values. Defaults are re-merged at every factory invocation, so a call here
// applies retroactively to fields a registered configuration never set.
//
// Intended for setup time; concurrent calls racing with in-flight
// invocations are the caller's responsibility to avoid.
func (a *App) SetDefaults(cfg *PageConfig) {
	if cfg == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	merged := cfg.clone()
	Merge(merged, &a.defaults)
	a.defaults = *merged
}

// invocationConfig produces the fully merged, fallback-filled configuration
// for a single invocation. Every invocation gets an independent copy.
func (a *App) invocationConfig(base *PageConfig) *PageConfig {
	cfg := base.clone()

	a.mu.RLock()
	defs := a.defaults.clone()
	a.mu.RUnlock()
	Merge(cfg, defs)

	if cfg.Template == nil {
		log := a.log
		name := cfg.Name
		cfg.Template = func(any) string {
			log.Info("page has no template, rendering empty markup", "page", name)
			return ""
		}
	}
	if cfg.Options.ResponseType == "" {
		cfg.Options.ResponseType = ResponseJSON
	}
	return cfg
}
