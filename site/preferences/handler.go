package preferences

import (
	"net/http"
	"strings"

	gohttp "github.com/km-arc/nexus-site/framework/http"
	"github.com/km-arc/nexus-site/framework/logging"
	"github.com/km-arc/nexus-site/framework/routing"
)

// ColorSchemeHint is the client hint carrying the system colour scheme.
const ColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

// Prefs is the response body of every preferences endpoint.
type Prefs struct {
	Theme     string `json:"theme"`
	Direction string `json:"direction"`
}

// Handler serves the preference endpoints, backed by cookies.
//
//	GET  /preferences
//	POST /preferences/theme/toggle
//	POST /preferences/direction/toggle
type Handler struct {
	log *logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(log *logging.Logger) *Handler {
	return &Handler{log: log}
}

// Mount registers the routes on r.
func (h *Handler) Mount(r *routing.Router) {
	r.Prefix("/preferences", func(p *routing.Router) {
		p.Get("/", h.show)
		p.Post("/theme/toggle", h.toggleTheme)
		p.Post("/direction/toggle", h.toggleDirection)
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	store, res, dark := h.open(w, r)
	res.Success(prefs(store, dark))
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	store, res, dark := h.open(w, r)
	ToggleTheme(store, dark)
	res.Success(prefs(store, dark))
}

func (h *Handler) toggleDirection(w http.ResponseWriter, r *http.Request) {
	store, res, dark := h.open(w, r)
	ToggleDirection(store)
	res.Success(prefs(store, dark))
}

// open builds the request's store and reads the system colour scheme.
func (h *Handler) open(w http.ResponseWriter, r *http.Request) (*CookieStore, *gohttp.Response, bool) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)
	w.Header().Set("Accept-CH", ColorSchemeHint)
	w.Header().Add("Vary", ColorSchemeHint)

	store := NewCookieStore(req, res)
	store.Subscribe(func(k Key, v string) {
		h.log.Debug("preference changed", map[string]any{"key": string(k), "value": v})
	})
	return store, res, SystemDark(req.Header(ColorSchemeHint))
}

// SystemDark reports whether a Sec-CH-Prefers-Color-Scheme value asks for
// the dark scheme. The value is a structured-header string, often quoted.
func SystemDark(hint string) bool {
	return strings.EqualFold(strings.Trim(strings.TrimSpace(hint), `"`), ThemeDark)
}

func prefs(s Store, systemDark bool) Prefs {
	return Prefs{Theme: Theme(s, systemDark), Direction: Direction(s)}
}
