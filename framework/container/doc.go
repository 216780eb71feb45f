// Package container provides a small IoC container and a service provider
// system used to wire the application together at start-up.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(), after which everything is safe to resolve
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("clock", func(c *container.Container) (any, error) { return forms.SystemClock, nil })
//
//	// Singleton: created once, reused
//	c.Singleton("forms.registry", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return loadForms(cfg)
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
// # Resolving
//
//	raw, err := c.Make("router")
//	router, err := container.Resolve[*routing.Router](c, "router")
//
// A factory that resolves itself, directly or through other bindings, fails
// with ErrCircular instead of recursing.
//
// # Tags
//
//	c.Tag("http.routes", "forms.handler", "preferences.handler")
//	handlers, err := c.Tagged("http.routes") // []any
//
// # Service Providers
//
//	type FormsServiceProvider struct{ container.BaseProvider }
//
//	func (p *FormsServiceProvider) Register(app *container.Container) {
//	    app.Singleton("forms.inbox", func(c *container.Container) (any, error) {
//	        return forms.NewInbox(0, nil, nil), nil
//	    })
//	}
//
//	func (p *FormsServiceProvider) Boot(app *container.Container) error {
//	    // safe to resolve other bindings here
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&FormsServiceProvider{})
//	err := registry.Boot()
package container
