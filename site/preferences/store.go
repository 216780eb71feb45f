// Package preferences keeps a visitor's display preferences: colour theme
// and text direction.
package preferences

import (
	"net/http"
	"sync"
	"time"

	gohttp "github.com/km-arc/nexus-site/framework/http"
)

// Key names a stored preference.
type Key string

const (
	KeyTheme     Key = "theme"
	KeyDirection Key = "direction"
)

// Store holds preference values.
type Store interface {
	Get(key Key) (string, bool)
	Set(key Key, value string)
	// Subscribe registers fn to run after every Set. The returned func
	// removes it.
	Subscribe(fn func(key Key, value string)) (cancel func())
}

// ── Subscribers ──────────────────────────────────────────────────────────────

type subscribers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(Key, string)
}

func (s *subscribers) add(fn func(Key, string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(Key, string))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) notify(key Key, value string) {
	s.mu.Lock()
	fns := make([]func(Key, string), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
}

// ── MemoryStore ──────────────────────────────────────────────────────────────

// MemoryStore is a Store held in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
	subs   subscribers
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string)}
}

func (m *MemoryStore) Get(key Key) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key Key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	m.subs.notify(key, value)
}

func (m *MemoryStore) Subscribe(fn func(Key, string)) func() { return m.subs.add(fn) }

// ── CookieStore ──────────────────────────────────────────────────────────────

// CookiePrefix is prepended to the key to form each preference cookie's name.
const CookiePrefix = "nexus_"

// cookieMaxAge keeps preferences for a year.
const cookieMaxAge = 365 * 24 * time.Hour

// CookieStore reads preferences from a request's cookies and writes changes
// back as Set-Cookie headers on the response. It lives for one request.
type CookieStore struct {
	req  *gohttp.Request
	res  *gohttp.Response
	mem  *MemoryStore
	subs subscribers
}

// NewCookieStore creates a CookieStore for one request/response pair.
func NewCookieStore(req *gohttp.Request, res *gohttp.Response) *CookieStore {
	return &CookieStore{req: req, res: res, mem: NewMemoryStore()}
}

func (c *CookieStore) Get(key Key) (string, bool) {
	if v, ok := c.mem.Get(key); ok {
		return v, true
	}
	ck, err := c.req.Raw().Cookie(CookiePrefix + string(key))
	if err != nil {
		return "", false
	}
	return ck.Value, true
}

func (c *CookieStore) Set(key Key, value string) {
	c.mem.Set(key, value)
	http.SetCookie(c.res.Raw(), &http.Cookie{
		Name:     CookiePrefix + string(key),
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	})
	c.subs.notify(key, value)
}

func (c *CookieStore) Subscribe(fn func(Key, string)) func() { return c.subs.add(fn) }
