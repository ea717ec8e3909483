package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/google/uuid"
)

const CookieName = "sid"

// State is everything the server keeps in memory for one browser. Callers
// hold the lock while they read or change it.
type State struct {
	sync.Mutex
	checkout.Session

	flash      string
	graphToken string
	lastSeen   time.Time
}

func (s *State) SetFlash(msg string) { s.flash = msg }

// TakeFlash returns the pending message once.
func (s *State) TakeFlash() string {
	msg := s.flash
	s.flash = ""
	return msg
}

func (s *State) SetGraphToken(token string) { s.graphToken = token }

func (s *State) GraphToken() string { return s.graphToken }

// Registry maps session ids to their state. Sessions idle longer than TTL
// are dropped by Sweep.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
	TTL    time.Duration
	Secure bool
	now    func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{states: make(map[string]*State), TTL: ttl, now: time.Now}
}

// Get returns the state for id, creating it if needed.
func (r *Registry) Get(id string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	if !ok {
		st = &State{Session: checkout.Session{ID: id}}
		r.states[id] = st
	}
	st.lastSeen = r.now()
	return st
}

// FromRequest resolves the session cookie, issuing a new one when absent.
func (r *Registry) FromRequest(w http.ResponseWriter, req *http.Request) *State {
	if c, err := req.Cookie(CookieName); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			return r.Get(c.Value)
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return r.Get(id)
}

// Sweep drops idle sessions and reports how many were removed. Durable
// snapshot and history survive in the store.
func (r *Registry) Sweep() int {
	if r.TTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.TTL)
	n := 0
	for id, st := range r.states {
		if st.lastSeen.Before(cutoff) {
			delete(r.states, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
