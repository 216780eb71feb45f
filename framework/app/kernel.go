package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/km-arc/nexus-site/framework/config"
	"github.com/km-arc/nexus-site/framework/container"
	"github.com/km-arc/nexus-site/framework/logging"
	"github.com/km-arc/nexus-site/framework/providers"
	"github.com/km-arc/nexus-site/framework/routing"
	"github.com/km-arc/nexus-site/site/forms"
)

const (
	shutdownTimeout = 5 * time.Second
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
)

// ErrStart is returned by Run when the server cannot listen.
var ErrStart = errors.New("app: server failed to start")

// Option configures an Application before its providers are registered.
type Option func(*options)

type options struct {
	envFiles []string
	logOut   io.Writer
	clock    forms.Clock
}

// WithEnvFiles sets the .env files loaded before the environment is read.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithLogOutput redirects the application log.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// WithClock replaces the clock behind form sessions and the inbox.
func WithClock(c forms.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so callers can
// call app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the core providers.
func New(opts ...Option) *Application {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	// Routing goes last: it mounts what the others tagged.
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: o.envFiles},
		&providers.LoggingServiceProvider{Writer: o.logOut},
		&providers.FormsServiceProvider{Clock: o.clock},
		&providers.PreferencesServiceProvider{},
		&providers.RoutingServiceProvider{},
	} {
		_ = registry.Register(p) // not booted yet, never fails
	}

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// The accessors below panic if called before a successful Boot.

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves *logging.Logger from the container.
func (a *Application) Logger() *logging.Logger {
	return container.MustResolve[*logging.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Forms resolves the form registry from the container.
func (a *Application) Forms() *forms.Registry {
	return container.MustResolve[*forms.Registry](a.Container, "forms.registry")
}

// Run boots the application (if needed), starts the HTTP server and the
// form session sweeper, and blocks until ctx is done. The server is then
// shut down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	log := a.Logger()
	store, err := container.Resolve[*forms.Store](a.Container, "forms.store")
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go store.Run(ctx, sweepInterval(cfg.Site.SessionTTL), cfg.Site.SessionTTL)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("server started", map[string]any{
		"app":  cfg.App.Name,
		"addr": srv.Addr,
		"env":  cfg.App.Env,
		"url":  cfg.App.URL,
	})

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "server shutdown")
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	log.Info("server stopped")
	return nil
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Config().IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
