package forms

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	gohttp "github.com/km-arc/nexus-site/framework/http"
	"github.com/km-arc/nexus-site/framework/logging"
	"github.com/km-arc/nexus-site/framework/routing"
)

// VisitorCookie identifies a visitor's form sessions.
const VisitorCookie = "nexus_form_session"

// Handler serves the form endpoints.
//
//	GET  /forms                 → declarations of every form
//	GET  /forms/{form}/state    → current state
//	POST /forms/{form}/input    {name, value} → clears the field's error
//	POST /forms/{form}/blur     {name, value?} → validates the field
//	POST /forms/{form}/submit   JSON object or form body → validates the form
//	GET  /forms/{form}/submissions → accepted submissions (only WithInbox)
//
// Requests from the datastar client get the resulting state as a signal
// patch stream instead of JSON; errors are always JSON.
type Handler struct {
	store *Store
	inbox *Inbox
	log   *logging.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithInbox exposes the inbox's submissions under /forms/{form}/submissions.
func WithInbox(in *Inbox) HandlerOption {
	return func(h *Handler) { h.inbox = in }
}

// NewHandler creates a Handler over store.
func NewHandler(store *Store, log *logging.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{store: store, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount registers the routes on r.
func (h *Handler) Mount(r *routing.Router) {
	r.Get("/forms", h.index)
	r.Prefix("/forms/{form}", func(f *routing.Router) {
		f.Get("/state", h.state)
		f.Post("/input", h.input)
		f.Post("/blur", h.blur)
		f.Post("/submit", h.submit)
		if h.inbox != nil {
			f.Get("/submissions", h.submissions)
		}
	})
}

type fieldEvent struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

type fieldResponse struct {
	Field  FieldState  `json:"field"`
	Submit SubmitState `json:"submit"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(h.store.Registry().All())
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	st := s.State()
	if IsDatastar(r) {
		h.patch(w, r, stateSignals(st))
		return
	}
	gohttp.NewResponse(w).Success(st)
}

func (h *Handler) input(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ev, ok := h.fieldEvent(w, r)
	if !ok {
		return
	}
	value := ""
	if ev.Value != nil {
		value = *ev.Value
	}
	fs, err := s.Input(ev.Name, value)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.field(w, r, fs, s.State().Submit)
}

func (h *Handler) blur(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ev, ok := h.fieldEvent(w, r)
	if !ok {
		return
	}
	if ev.Value != nil {
		if _, err := s.Input(ev.Name, *ev.Value); err != nil {
			h.fail(w, err)
			return
		}
	}
	if _, err := s.Blur(ev.Name); err != nil {
		h.fail(w, err)
		return
	}
	fs, err := s.Field(ev.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.field(w, r, fs, s.State().Submit)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	res := gohttp.NewResponse(w)

	values, err := gohttp.NewRequest(r).Values()
	if err != nil && !errors.Is(err, gohttp.ErrEmptyBody) {
		res.Error(http.StatusBadRequest, "Malformed form data.")
		return
	}

	// Extra keys (hidden inputs, tokens) are not part of the declaration.
	for name, value := range values {
		if _, ok := s.Form().Field(name); ok {
			_, _ = s.Input(name, value)
		}
	}

	ev := &SubmitEvent{}
	valid := ValidateForm(ev, s)
	if ev.Ignored() {
		res.Error(http.StatusConflict, "Form already submitted.")
		return
	}
	if !valid {
		h.log.Debug("form submission rejected", map[string]any{"form": s.Form().Name})
	}

	st := s.State()
	switch {
	case IsDatastar(r):
		h.patch(w, r, stateSignals(st))
	case !valid:
		res.ValidationError(st)
	default:
		res.Success(st)
	}
}

func (h *Handler) submissions(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.Registry().Get(routing.Param(r, "form"))
	if err != nil {
		h.fail(w, err)
		return
	}
	gohttp.NewResponse(w).Success(h.inbox.ForForm(f.Name))
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (h *Handler) field(w http.ResponseWriter, r *http.Request, fs FieldState, submit SubmitState) {
	if IsDatastar(r) {
		h.patch(w, r, fieldSignals(fs, submit))
		return
	}
	gohttp.NewResponse(w).Success(fieldResponse{Field: fs, Submit: submit})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.store.Session(visitorID(w, r), routing.Param(r, "form"))
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) fieldEvent(w http.ResponseWriter, r *http.Request) (fieldEvent, bool) {
	var ev fieldEvent
	if err := gohttp.NewRequest(r).Bind(&ev); err != nil || ev.Name == "" {
		gohttp.NewResponse(w).Error(http.StatusBadRequest, "Expected {\"name\": ..., \"value\": ...}.")
		return fieldEvent{}, false
	}
	return ev, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	res := gohttp.NewResponse(w)
	switch {
	case errors.Is(err, ErrUnknownForm):
		res.NotFound("Unknown form.")
	case errors.Is(err, ErrUnknownField):
		res.NotFound("Unknown field.")
	default:
		h.log.Error(err, "form request failed")
		res.Error(http.StatusInternalServerError, "Server Error.")
	}
}

// visitorID returns the visitor's id cookie, issuing a new one if it is
// missing or malformed.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
