// Package forms holds the site's validated forms: their declarations, the
// live per-visitor state of each form, and the HTTP endpoints that drive it.
package forms

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

// DefaultSubmitLabel is used when a form declares no submit button text.
const DefaultSubmitLabel = "Submit"

var (
	ErrUnknownForm       = errors.New("forms: unknown form")
	ErrUnknownField      = errors.New("forms: unknown field")
	ErrDuplicateForm     = errors.New("forms: conflicting form declarations")
	ErrInvalidDefinition = errors.New("forms: invalid form definition")
)

// Form is the declaration of one validated form. Field values are always
// empty here; live values belong to a Session.
type Form struct {
	Name        string             `json:"name"`
	SubmitLabel string             `json:"submit_label"`
	Fields      []validation.Field `json:"fields"`
}

// Field returns the declaration of the named field.
func (f Form) Field(name string) (validation.Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return validation.Field{}, false
}

func (f Form) equal(o Form) bool {
	return f.Name == o.Name && f.SubmitLabel == o.SubmitLabel && slices.Equal(f.Fields, o.Fields)
}

func (f Form) check() error {
	if f.Name == "" {
		return fmt.Errorf("%w: form without a name", ErrInvalidDefinition)
	}
	seen := make(map[string]bool, len(f.Fields))
	for _, fd := range f.Fields {
		if fd.Name == "" {
			return fmt.Errorf("%w: %s: field without a name", ErrInvalidDefinition, f.Name)
		}
		if seen[fd.Name] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidDefinition, f.Name, fd.Name)
		}
		seen[fd.Name] = true
	}
	return nil
}

// ── Registry ─────────────────────────────────────────────────────────────────

// Registry maps form names to declarations. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]Form
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{forms: make(map[string]Form)}
}

// Add registers a form. The same declaration may be added more than once
// (a footer form repeated on every page); a different declaration under an
// existing name is an error.
func (r *Registry) Add(f Form) error {
	if err := f.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.forms[f.Name]; ok && !existing.equal(f) {
		return fmt.Errorf("%w: %q", ErrDuplicateForm, f.Name)
	}
	r.forms[f.Name] = f
	return nil
}

// Set registers a form, replacing any existing declaration with that name.
func (r *Registry) Set(f Form) error {
	if err := f.check(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[f.Name] = f
	return nil
}

// Get returns the named form.
func (r *Registry) Get(name string) (Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.forms[name]
	if !ok {
		return Form{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return f, nil
}

// All returns every registered form ordered by name.
func (r *Registry) All() []Form {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Form, 0, len(r.forms))
	for _, f := range r.forms {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
