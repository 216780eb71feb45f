package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/nexus-site/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalled int
	bootCalled     int
}

func (p *eagerProvider) Register(app *container.Container) {
	p.registerCalled++
	app.Singleton("eager-svc", func(c *container.Container) (any, error) { return "eager", nil })
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalled++
	return nil
}

// dependentProvider resolves eager-svc during Boot.
type dependentProvider struct {
	container.BaseProvider
	seen string
}

func (p *dependentProvider) Register(app *container.Container) {}

func (p *dependentProvider) Boot(app *container.Container) error {
	v, err := container.Resolve[string](app, "eager-svc")
	p.seen = v
	return err
}

var errBoot = errors.New("boom")

type failingProvider struct {
	container.BaseProvider
}

func (p *failingProvider) Register(app *container.Container)   {}
func (p *failingProvider) Boot(app *container.Container) error { return errBoot }

// multiProvider registers multiple abstracts.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) {
	app.Singleton("alpha", func(c *container.Container) (any, error) { return "α", nil })
	app.Singleton("beta", func(c *container.Container) (any, error) { return "β", nil })
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_RegisterCalledImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}
	if p.registerCalled != 1 {
		t.Error("Register() should be called immediately")
	}
	if p.bootCalled != 0 {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}
}

func TestRegistry_BootCalledAfterBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	_ = reg.Register(p)
	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}
	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d, want 1", p.bootCalled)
	}
}

func TestRegistry_BootResolvesOtherProviders(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	dep := &dependentProvider{}
	_ = reg.Register(dep) // registered before the binding it needs
	_ = reg.Register(&eagerProvider{})

	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}
	if dep.seen != "eager" {
		t.Errorf("dependent saw %q, want 'eager'", dep.seen)
	}
}

func TestRegistry_Boot_Idempotent(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()
	_ = reg.Boot() // second call should be no-op

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
	if p.bootCalled != 1 {
		t.Errorf("Boot() calls: got %d, want 1", p.bootCalled)
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	_ = reg.Register(p)
	_ = reg.Register(p)

	if p.registerCalled != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalled)
	}
	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1", len(reg.Providers()))
	}
}

func TestRegistry_BootError(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	after := &eagerProvider{}
	_ = reg.Register(&failingProvider{})
	_ = reg.Register(after)

	err := reg.Boot()
	if !errors.Is(err, errBoot) {
		t.Fatalf("Boot(): got %v, want errBoot", err)
	}
	if after.bootCalled != 0 {
		t.Error("providers after a failing one should not boot")
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllServicesResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&multiProvider{})
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	for abstract, want := range map[string]string{"alpha": "α", "beta": "β", "eager-svc": "eager"} {
		if got := container.MustResolve[string](c, abstract); got != want {
			t.Errorf("%s: got %q, want %q", abstract, got, want)
		}
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	if err := p.Boot(container.New()); err != nil {
		t.Errorf("BaseProvider.Boot(): got %v, want nil", err)
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	_ = reg.Boot()

	p := &eagerProvider{}
	_ = reg.Register(p)
	if p.bootCalled != 1 {
		t.Error("provider registered after Boot() should be booted immediately")
	}

	if err := reg.Register(&failingProvider{}); !errors.Is(err, errBoot) {
		t.Errorf("late Register(): got %v, want errBoot", err)
	}
}
