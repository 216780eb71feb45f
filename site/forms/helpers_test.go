package forms_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/nexus-site/framework/http/validation"
	"github.com/km-arc/nexus-site/site/forms"
)

// fakeClock fires AfterFunc callbacks only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []fakeTimer
}

type fakeTimer struct {
	at time.Time
	f  func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, fakeTimer{at: c.now.Add(d), f: f})
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	pending := c.timers[:0]
	for _, t := range c.timers {
		if !t.at.After(c.now) {
			due = append(due, t.f)
		} else {
			pending = append(pending, t)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// contactForm has one required email field, as on the site's contact page.
func contactForm() forms.Form {
	return forms.Form{
		Name:        "contact",
		SubmitLabel: "Send Message",
		Fields: []validation.Field{
			{Name: "email", Type: validation.TypeEmail, Required: true},
		},
	}
}

// fullForm exercises every rule.
func fullForm() forms.Form {
	return forms.Form{
		Name:        "quote",
		SubmitLabel: "Request Quote",
		Fields: []validation.Field{
			{Name: "name", Type: validation.TypeText, Required: true},
			{Name: "email", Type: validation.TypeEmail, Required: true},
			{Name: "phone", Type: validation.TypeTel},
			{Name: "message", Type: validation.TypeText, Required: true, MinLength: 10},
		},
	}
}

func registry(t *testing.T, fs ...forms.Form) *forms.Registry {
	t.Helper()
	reg := forms.NewRegistry()
	for _, f := range fs {
		require.NoError(t, reg.Add(f))
	}
	return reg
}

func fieldState(t *testing.T, st forms.State, name string) forms.FieldState {
	t.Helper()
	for _, fs := range st.Fields {
		if fs.Name == name {
			return fs
		}
	}
	t.Fatalf("field %q not in state", name)
	return forms.FieldState{}
}
