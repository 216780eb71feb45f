package forms

import (
	"fmt"
	"sync"
	"time"

	"github.com/km-arc/nexus-site/framework/http/validation"
)

// ConfirmationLabel replaces the submit label after a successful submit.
const ConfirmationLabel = "✓ Message Sent!"

// SuccessResetDelay is how long a submitted form stays confirmed before it
// is cleared and the submit control restored.
const SuccessResetDelay = 3 * time.Second

// Clock schedules the post-submit reset.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

type systemClock struct{}

func (systemClock) Now() time.Time                      { return time.Now() }
func (systemClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ── State ────────────────────────────────────────────────────────────────────

// FieldState is what a visitor sees for one field. Message is only set
// while the field is Invalid.
type FieldState struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Invalid bool   `json:"invalid"`
	Message string `json:"message,omitempty"`
}

// SubmitState is the submit control.
type SubmitState struct {
	Label     string `json:"label"`
	Disabled  bool   `json:"disabled"`
	Confirmed bool   `json:"confirmed"`
}

// State is a snapshot of a whole form.
type State struct {
	Form   string       `json:"form"`
	Fields []FieldState `json:"fields"`
	Submit SubmitState  `json:"submit"`
}

// SuccessFunc receives the values of an accepted submission.
type SuccessFunc func(f Form, values map[string]string)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock sets the clock used for the post-submit reset.
func WithClock(c Clock) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// OnSuccess registers a callback run after every accepted submission.
func OnSuccess(fn SuccessFunc) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.onSuccess = append(s.onSuccess, fn)
		}
	}
}

// ── Session ──────────────────────────────────────────────────────────────────

// Session is the live state of one form for one visitor.
//
// Each field is Clean or Invalid. A failed Blur makes it Invalid; Input
// always makes it Clean again without re-validating, and so does a Blur
// that passes. It is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	form      Form
	values    map[string]string
	errors    map[string]string
	submit    SubmitState
	clock     Clock
	onSuccess []SuccessFunc
}

// NewSession creates a pristine Session for f.
func NewSession(f Form, opts ...SessionOption) *Session {
	s := &Session{
		form:   f,
		values: make(map[string]string, len(f.Fields)),
		errors: make(map[string]string),
		submit: SubmitState{Label: f.SubmitLabel},
		clock:  SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Form returns the declaration this session was created from.
func (s *Session) Form() Form { return s.form }

// Input records a new value for the field and clears its error.
func (s *Session) Input(name, value string) (FieldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.form.Field(name); !ok {
		return FieldState{}, s.unknown(name)
	}
	s.values[name] = value
	delete(s.errors, name)
	return s.fieldState(name), nil
}

// Blur validates the field's current value and shows or hides its error.
func (s *Session) Blur(name string) (validation.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fd, ok := s.form.Field(name)
	if !ok {
		return validation.Result{}, s.unknown(name)
	}
	return s.check(fd), nil
}

// Field returns the current state of one field.
func (s *Session) Field(name string) (FieldState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.form.Field(name); !ok {
		return FieldState{}, s.unknown(name)
	}
	return s.fieldState(name), nil
}

// State returns a snapshot of every field and the submit control.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Form:   s.form.Name,
		Fields: make([]FieldState, 0, len(s.form.Fields)),
		Submit: s.submit,
	}
	for _, fd := range s.form.Fields {
		st.Fields = append(st.Fields, s.fieldState(fd.Name))
	}
	return st
}

// check must hold mu.
func (s *Session) check(fd validation.Field) validation.Result {
	fd.Value = s.values[fd.Name]
	res := validation.ValidateField(fd)
	s.show(fd.Name, res)
	return res
}

// show must hold mu.
func (s *Session) show(name string, res validation.Result) {
	if res.Valid {
		delete(s.errors, name)
	} else {
		s.errors[name] = res.Message
	}
}

// fieldState must hold mu.
func (s *Session) fieldState(name string) FieldState {
	msg, invalid := s.errors[name]
	return FieldState{Name: name, Value: s.values[name], Invalid: invalid, Message: msg}
}

func (s *Session) unknown(name string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, s.form.Name, name)
}

// reset restores the pristine state after a successful submit.
func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	clear(s.errors)
	s.submit = SubmitState{Label: s.form.SubmitLabel}
}

// ── Submit ───────────────────────────────────────────────────────────────────

// SubmitEvent is one attempt to submit a form.
type SubmitEvent struct {
	prevented bool
	ignored   bool
}

// PreventDefault cancels the form's default submission action.
func (e *SubmitEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *SubmitEvent) DefaultPrevented() bool { return e.prevented }

// Ignored reports whether the submit control was disabled, so nothing was
// validated.
func (e *SubmitEvent) Ignored() bool { return e.ignored }

// ValidateForm handles a submit attempt. The default action is always
// prevented. Every required field is validated and shows its result; the
// return value is true only if all of them passed.
//
// On success the submit control is disabled and shows ConfirmationLabel,
// and SuccessResetDelay later the form is cleared and the control restored.
// The reset cannot be cancelled. While the control is disabled further
// attempts are ignored and return false.
func ValidateForm(ev *SubmitEvent, s *Session) bool {
	ev.PreventDefault()

	s.mu.Lock()
	if s.submit.Disabled {
		s.mu.Unlock()
		ev.ignored = true
		return false
	}

	fields := make([]validation.Field, 0, len(s.form.Fields))
	for _, fd := range s.form.Fields {
		fd.Value = s.values[fd.Name]
		fields = append(fields, fd)
	}
	valid, results := validation.ValidateForm(fields)
	for name, res := range results {
		s.show(name, res)
	}
	if !valid {
		s.mu.Unlock()
		return false
	}

	s.submit = SubmitState{Label: ConfirmationLabel, Disabled: true, Confirmed: true}
	values := make(map[string]string, len(fields))
	for _, fd := range fields {
		values[fd.Name] = fd.Value
	}
	callbacks := s.onSuccess
	s.mu.Unlock()

	s.clock.AfterFunc(SuccessResetDelay, s.reset)
	for _, fn := range callbacks {
		fn(s.form, values)
	}
	return true
}
