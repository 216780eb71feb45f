package forms

import (
	"encoding/json"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// DatastarRequestHeader is set by the datastar client on every request it sends.
const DatastarRequestHeader = "Datastar-Request"

// IsDatastar reports whether r came from the datastar client, which expects
// state changes as signal patches over server-sent events.
func IsDatastar(r *http.Request) bool {
	return r.Header.Get(DatastarRequestHeader) == "true"
}

// Signals is the signal patch sent to datastar clients. Fields is keyed by
// field name; a patch only carries the fields that changed.
type Signals struct {
	Fields map[string]FieldState `json:"fields"`
	Submit SubmitState           `json:"submit"`
}

func stateSignals(st State) Signals {
	sig := Signals{Fields: make(map[string]FieldState, len(st.Fields)), Submit: st.Submit}
	for _, fs := range st.Fields {
		sig.Fields[fs.Name] = fs
	}
	return sig
}

func fieldSignals(fs FieldState, submit SubmitState) Signals {
	return Signals{Fields: map[string]FieldState{fs.Name: fs}, Submit: submit}
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request, sig Signals) {
	data, err := json.Marshal(sig)
	if err != nil {
		h.log.Error(err, "encode form signals")
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchSignals(data); err != nil {
		h.log.Warn("form signal patch not delivered", map[string]any{"error": err.Error()})
	}
}
