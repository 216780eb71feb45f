package providers

import (
	"fmt"
	"io"

	"github.com/km-arc/nexus-site/framework/config"
	"github.com/km-arc/nexus-site/framework/container"
	"github.com/km-arc/nexus-site/framework/logging"
	"github.com/km-arc/nexus-site/framework/routing"
)

// RoutesTag groups every binding that mounts HTTP routes. Each tagged
// instance must implement Mounter.
const RoutesTag = "http.routes"

// Mounter registers routes on a router.
type Mounter interface {
	Mount(r *routing.Router)
}

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// the environment.
//
// Bound abstracts:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) (any, error) {
		return config.Load(envFiles...)
	})
}

// Boot loads the configuration so a bad value fails start-up.
func (p *ConfigServiceProvider) Boot(app *container.Container) error {
	_, err := container.Resolve[*config.Config](app, "config")
	return err
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the application logger.
//
// Bound abstracts:
//   - "logger"  → *logging.Logger
//
// Configuration keys read from "config":
//   - LOG_LEVEL
//   - LOG_PRETTY
type LoggingServiceProvider struct {
	container.BaseProvider
	Writer io.Writer // default: os.Stdout
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	w := p.Writer
	app.Singleton("logger", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(logging.Options{
			Level:         cfg.Log.Level,
			HumanReadable: cfg.Log.Pretty,
			Writer:        w,
		})
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. On Boot it mounts every
// RoutesTag binding and then serves the static site at "/".
//
// Bound abstracts:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*logging.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(log), nil
	})
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	r, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}

	handlers, err := app.Tagged(RoutesTag)
	if err != nil {
		return err
	}
	for _, h := range handlers {
		m, ok := h.(Mounter)
		if !ok {
			return fmt.Errorf("%w: %T does not mount routes", container.ErrType, h)
		}
		m.Mount(r)
	}

	r.Static("/", cfg.Site.Dir)
	return nil
}
