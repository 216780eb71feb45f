package providers

import (
	"os"

	"github.com/km-arc/nexus-site/framework/config"
	"github.com/km-arc/nexus-site/framework/container"
	"github.com/km-arc/nexus-site/framework/logging"
	"github.com/km-arc/nexus-site/site/forms"
	"github.com/km-arc/nexus-site/site/preferences"
)

// ── FormsServiceProvider ──────────────────────────────────────────────────────

// FormsServiceProvider registers the validated forms of the site.
//
// Bound abstracts:
//   - "forms.registry"  → *forms.Registry  (site pages, then FORMS_FILE)
//   - "forms.inbox"     → *forms.Inbox
//   - "forms.store"     → *forms.Store
//   - "forms.handler"   → *forms.Handler   (tagged RoutesTag; lists
//     submissions outside production)
type FormsServiceProvider struct {
	container.BaseProvider
	Clock forms.Clock // default: forms.SystemClock
}

func (p *FormsServiceProvider) Register(app *container.Container) {
	clock := p.Clock
	if clock == nil {
		clock = forms.SystemClock
	}

	app.Singleton("forms.registry", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return LoadForms(cfg)
	})

	app.Singleton("forms.inbox", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return forms.NewInbox(forms.DefaultInboxSize, clock, log), nil
	})

	app.Singleton("forms.store", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		reg, err := container.Resolve[*forms.Registry](c, "forms.registry")
		if err != nil {
			return nil, err
		}
		inbox, err := container.Resolve[*forms.Inbox](c, "forms.inbox")
		if err != nil {
			return nil, err
		}
		store := forms.NewStore(reg, clock, forms.OnSuccess(inbox.Record))
		store.SetLimit(cfg.Site.MaxSessions)
		return store, nil
	})

	app.Singleton("forms.handler", func(c *container.Container) (any, error) {
		store, err := container.Resolve[*forms.Store](c, "forms.store")
		if err != nil {
			return nil, err
		}
		log, err := container.Resolve[*logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		var opts []forms.HandlerOption
		if !cfg.IsProduction() {
			inbox, err := container.Resolve[*forms.Inbox](c, "forms.inbox")
			if err != nil {
				return nil, err
			}
			opts = append(opts, forms.WithInbox(inbox))
		}
		return forms.NewHandler(store, log, opts...), nil
	})

	app.Tag(RoutesTag, "forms.handler")
}

// Boot loads the form declarations so a broken page or forms file fails
// start-up.
func (p *FormsServiceProvider) Boot(app *container.Container) error {
	reg, err := container.Resolve[*forms.Registry](app, "forms.registry")
	if err != nil {
		return err
	}
	log, err := container.Resolve[*logging.Logger](app, "logger")
	if err != nil {
		return err
	}
	log.Info("forms loaded", map[string]any{"count": len(reg.All())})
	return nil
}

// LoadForms builds the registry from the site pages matching cfg.Site.Pages
// and, if set, the YAML or TOML file cfg.Site.FormsFile. Forms in that file
// replace same-named forms found in the pages.
func LoadForms(cfg *config.Config) (*forms.Registry, error) {
	reg := forms.NewRegistry()

	found, err := forms.LoadHTML(os.DirFS(cfg.Site.Dir), cfg.Site.Pages...)
	if err != nil {
		return nil, err
	}
	for _, f := range found {
		if err := reg.Add(f); err != nil {
			return nil, err
		}
	}

	if cfg.Site.FormsFile == "" {
		return reg, nil
	}
	declared, err := forms.LoadFile(cfg.Site.FormsFile)
	if err != nil {
		return nil, err
	}
	for _, f := range declared {
		if err := reg.Set(f); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ── PreferencesServiceProvider ────────────────────────────────────────────────

// PreferencesServiceProvider registers the visitor preference endpoints.
//
// Bound abstracts:
//   - "preferences.handler"  → *preferences.Handler  (tagged RoutesTag)
type PreferencesServiceProvider struct {
	container.BaseProvider
}

func (p *PreferencesServiceProvider) Register(app *container.Container) {
	app.Singleton("preferences.handler", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return preferences.NewHandler(log), nil
	})
	app.Tag(RoutesTag, "preferences.handler")
}
