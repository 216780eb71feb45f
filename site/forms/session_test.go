package forms_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/nexus-site/framework/http/validation"
	"github.com/km-arc/nexus-site/site/forms"
)

// ── field state machine ──────────────────────────────────────────────────────

func TestSession_BlurInvalidThenInputClears(t *testing.T) {
	s := forms.NewSession(contactForm())

	res, err := s.Blur("email")
	require.NoError(t, err)
	assert.Equal(t, validation.Result{Message: validation.MsgRequired}, res)

	fs, err := s.Field("email")
	require.NoError(t, err)
	assert.True(t, fs.Invalid)
	assert.Equal(t, validation.MsgRequired, fs.Message)

	// Input clears optimistically even though the value is still invalid.
	fs, err = s.Input("email", "not-an-email")
	require.NoError(t, err)
	assert.False(t, fs.Invalid)
	assert.Empty(t, fs.Message)
	assert.Equal(t, "not-an-email", fs.Value)

	res, err = s.Blur("email")
	require.NoError(t, err)
	assert.Equal(t, validation.MsgEmail, res.Message)

	_, _ = s.Input("email", "user@example.com")
	res, err = s.Blur("email")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	fs, _ = s.Field("email")
	assert.False(t, fs.Invalid)
}

func TestSession_BlurPassingClearsError(t *testing.T) {
	s := forms.NewSession(fullForm())

	_, _ = s.Input("phone", "123")
	res, _ := s.Blur("phone")
	require.False(t, res.Valid)

	_, _ = s.Input("phone", "+1 (555) 123-4567")
	_, _ = s.Blur("phone")
	fs, _ := s.Field("phone")
	assert.False(t, fs.Invalid)
}

func TestSession_BlurIsRepeatable(t *testing.T) {
	s := forms.NewSession(contactForm())
	_, _ = s.Input("email", "user@example")

	first, _ := s.Blur("email")
	second, _ := s.Blur("email")
	assert.Equal(t, first, second)
}

func TestSession_UnknownField(t *testing.T) {
	s := forms.NewSession(contactForm())

	_, err := s.Input("nope", "x")
	assert.ErrorIs(t, err, forms.ErrUnknownField)
	_, err = s.Blur("nope")
	assert.ErrorIs(t, err, forms.ErrUnknownField)
	_, err = s.Field("nope")
	assert.ErrorIs(t, err, forms.ErrUnknownField)
}

func TestSession_StateOrder(t *testing.T) {
	s := forms.NewSession(fullForm())
	st := s.State()

	assert.Equal(t, "quote", st.Form)
	require.Len(t, st.Fields, 4)
	assert.Equal(t, []string{"name", "email", "phone", "message"},
		[]string{st.Fields[0].Name, st.Fields[1].Name, st.Fields[2].Name, st.Fields[3].Name})
	assert.Equal(t, forms.SubmitState{Label: "Request Quote"}, st.Submit)
}

// ── submit ───────────────────────────────────────────────────────────────────

func TestValidateForm_EmptyRequired(t *testing.T) {
	s := forms.NewSession(contactForm(), forms.WithClock(newFakeClock()))
	ev := &forms.SubmitEvent{}

	assert.False(t, forms.ValidateForm(ev, s))
	assert.True(t, ev.DefaultPrevented())
	assert.False(t, ev.Ignored())

	fs := fieldState(t, s.State(), "email")
	assert.True(t, fs.Invalid)
	assert.Equal(t, "This field is required", fs.Message)
	assert.Equal(t, forms.SubmitState{Label: "Send Message"}, s.State().Submit)
}

func TestValidateForm_NoTLD(t *testing.T) {
	s := forms.NewSession(contactForm(), forms.WithClock(newFakeClock()))
	_, _ = s.Input("email", "user@example")

	ev := &forms.SubmitEvent{}
	assert.False(t, forms.ValidateForm(ev, s))
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "Please enter a valid email address", fieldState(t, s.State(), "email").Message)
}

func TestValidateForm_SuccessAndReset(t *testing.T) {
	clock := newFakeClock()
	var got []map[string]string
	s := forms.NewSession(contactForm(),
		forms.WithClock(clock),
		forms.OnSuccess(func(f forms.Form, values map[string]string) {
			assert.Equal(t, "contact", f.Name)
			got = append(got, values)
		}),
	)
	_, _ = s.Input("email", "user@example.com")

	ev := &forms.SubmitEvent{}
	require.True(t, forms.ValidateForm(ev, s))
	assert.True(t, ev.DefaultPrevented())

	st := s.State()
	assert.Equal(t, forms.SubmitState{Label: forms.ConfirmationLabel, Disabled: true, Confirmed: true}, st.Submit)
	assert.Equal(t, "user@example.com", fieldState(t, st, "email").Value)
	assert.Equal(t, []map[string]string{{"email": "user@example.com"}}, got)

	clock.Advance(forms.SuccessResetDelay - 1)
	assert.True(t, s.State().Submit.Disabled, "still confirmed before the delay elapses")

	clock.Advance(1)
	st = s.State()
	assert.Equal(t, forms.SubmitState{Label: "Send Message"}, st.Submit)
	assert.Empty(t, fieldState(t, st, "email").Value)
	assert.Zero(t, clock.Pending())
}

func TestValidateForm_IgnoredWhileConfirmed(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	s := forms.NewSession(contactForm(), forms.WithClock(clock),
		forms.OnSuccess(func(forms.Form, map[string]string) { calls++ }))
	_, _ = s.Input("email", "user@example.com")
	require.True(t, forms.ValidateForm(&forms.SubmitEvent{}, s))

	ev := &forms.SubmitEvent{}
	assert.False(t, forms.ValidateForm(ev, s))
	assert.True(t, ev.Ignored())
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, clock.Pending())
}

func TestValidateForm_ResetNotCancelledByInput(t *testing.T) {
	clock := newFakeClock()
	s := forms.NewSession(contactForm(), forms.WithClock(clock))
	_, _ = s.Input("email", "user@example.com")
	require.True(t, forms.ValidateForm(&forms.SubmitEvent{}, s))

	_, _ = s.Input("email", "typed during confirmation")
	clock.Advance(forms.SuccessResetDelay)

	assert.Empty(t, fieldState(t, s.State(), "email").Value)
}

func TestValidateForm_OnlyRequiredFieldsChecked(t *testing.T) {
	s := forms.NewSession(fullForm(), forms.WithClock(newFakeClock()))
	_, _ = s.Input("name", "Ann")
	_, _ = s.Input("email", "ann@example.com")
	_, _ = s.Input("phone", "123") // optional and invalid
	_, _ = s.Input("message", "short")

	assert.False(t, forms.ValidateForm(&forms.SubmitEvent{}, s))
	st := s.State()
	assert.Equal(t, validation.MsgMinLength(10), fieldState(t, st, "message").Message)
	assert.False(t, fieldState(t, st, "phone").Invalid)

	_, _ = s.Input("message", "Hello there, Nexus")
	assert.True(t, forms.ValidateForm(&forms.SubmitEvent{}, s))
}

func TestSession_Concurrent(t *testing.T) {
	s := forms.NewSession(fullForm(), forms.WithClock(newFakeClock()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Input("name", "Ann")
			_, _ = s.Blur("email")
			_ = s.State()
			forms.ValidateForm(&forms.SubmitEvent{}, s)
		}()
	}
	wg.Wait()
	assert.True(t, fieldState(t, s.State(), "email").Invalid)
}
