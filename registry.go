package tvshell

// Create registers a page factory under name. The name is stamped back onto
// the configuration so handlers and collaborators can read it.
//
// Duplicate registration is non-fatal: the previous factory is replaced,
// last write wins, and the condition is logged. An empty name is also
// tolerated - the returned factory works by value - but Get will never find
// it, which is logged as well.
func (a *App) Create(name string, cfg *PageConfig) *PageFactory {
	if cfg == nil {
		cfg = &PageConfig{}
	}
	if name == "" {
		name = cfg.Name
	}
	cfg.Name = name

	f := &PageFactory{app: a, cfg: cfg}
	if name == "" {
		a.log.Info("registering page without a name; it cannot be retrieved by name")
		return f
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.pages[name]; exists {
		a.log.Info("page already registered, replacing", "page", name)
	}
	a.pages[name] = f
	return f
}

// CreateFromConfig registers a configuration that carries its own Name.
func (a *App) CreateFromConfig(cfg *PageConfig) *PageFactory {
	return a.Create("", cfg)
}

// Get retrieves a registered factory. It never creates one.
func (a *App) Get(name string) (*PageFactory, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	f, ok := a.pages[name]
	return f, ok
}
