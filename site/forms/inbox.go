package forms

import (
	"html"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/km-arc/nexus-site/framework/logging"
)

// DefaultInboxSize bounds how many submissions an Inbox keeps.
const DefaultInboxSize = 500

// Submission is one accepted form submission.
type Submission struct {
	ID         uuid.UUID         `json:"id"`
	Form       string            `json:"form"`
	Values     map[string]string `json:"values"`
	ReceivedAt time.Time         `json:"received_at"`
}

// Inbox keeps the most recent accepted submissions in memory. Values are
// stripped of markup before they are stored or logged.
type Inbox struct {
	mu     sync.Mutex
	items  []Submission
	size   int
	policy *bluemonday.Policy
	clock  Clock
	log    *logging.Logger
}

// NewInbox creates an Inbox holding at most size submissions (DefaultInboxSize if size <= 0).
func NewInbox(size int, clock Clock, log *logging.Logger) *Inbox {
	if size <= 0 {
		size = DefaultInboxSize
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Inbox{
		size:   size,
		policy: bluemonday.StrictPolicy(),
		clock:  clock,
		log:    log,
	}
}

// Record stores a submission, dropping the oldest one when full.
// Its signature matches SuccessFunc.
func (in *Inbox) Record(f Form, values map[string]string) {
	sub := Submission{
		ID:         uuid.New(),
		Form:       f.Name,
		Values:     make(map[string]string, len(values)),
		ReceivedAt: in.clock.Now().UTC(),
	}
	for k, v := range values {
		// StrictPolicy escapes what it keeps; store plain text.
		sub.Values[k] = html.UnescapeString(in.policy.Sanitize(v))
	}

	in.mu.Lock()
	if len(in.items) == in.size {
		in.items = append(in.items[:0], in.items[1:]...)
	}
	in.items = append(in.items, sub)
	in.mu.Unlock()

	in.log.Info("form submission accepted", map[string]any{
		"submission_id": sub.ID.String(),
		"form":          sub.Form,
		"fields":        len(sub.Values),
	})
}

// List returns the stored submissions, oldest first.
func (in *Inbox) List() []Submission {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Submission, len(in.items))
	copy(out, in.items)
	return out
}

// ForForm returns the stored submissions of the named form, oldest first.
func (in *Inbox) ForForm(name string) []Submission {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]Submission, 0)
	for _, sub := range in.items {
		if sub.Form == name {
			out = append(out, sub)
		}
	}
	return out
}
