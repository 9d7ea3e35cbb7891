package session

import (
	"errors"
	"sync"
	"time"
)

// DefaultTTL is the inactivity window after which a session expires.
const DefaultTTL = 5 * time.Minute

// DefaultCapacity bounds the table; the oldest session is evicted when a
// create would exceed it.
const DefaultCapacity = 512

var (
	// ErrNotFound indicates no live session under that id.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired indicates the session outlived the inactivity window;
	// the entry is dropped at detection time.
	ErrExpired = errors.New("session: expired")
)

// Store is the in-memory session table. The clock is injected so tests can
// step time without sleeping.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
	ttl      time.Duration
	capacity int
}

// NewStore builds a Store. Zero ttl or capacity select the defaults; a nil
// clock selects time.Now.
func NewStore(ttl time.Duration, capacity int, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		now:      now,
		ttl:      ttl,
		capacity: capacity,
	}
}

// Create assigns a fresh unique id and stores the session.
func (st *Store) Create(s *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	for {
		id := newID()
		if _, taken := st.sessions[id]; !taken {
			s.ID = id
			break
		}
	}
	s.createdAt = st.now().UnixNano()
	if len(st.sessions) >= st.capacity {
		st.evictOldestLocked()
	}
	st.sessions[s.ID] = s
	return s
}

// Get returns the session regardless of expiry.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Resolve returns the session if it is live. An expired entry is deleted
// and reported as ErrExpired; an unknown id as ErrNotFound.
func (st *Store) Resolve(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if st.expiredLocked(s) {
		delete(st.sessions, id)
		return nil, ErrExpired
	}
	return s, nil
}

// Touch resets the inactivity clock; called after every successful
// interaction on the session.
func (st *Store) Touch(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		s.createdAt = st.now().UnixNano()
	}
}

// IsExpired reports whether the id is absent or past the inactivity window.
func (st *Store) IsExpired(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return !ok || st.expiredLocked(s)
}

// Delete removes the session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len counts live (non-expired) sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, s := range st.sessions {
		if !st.expiredLocked(s) {
			n++
		}
	}
	return n
}

// Sweep drops every expired entry and returns how many were removed.
// Correctness never depends on it running; expiry is re-checked on use.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if st.expiredLocked(s) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *Store) expiredLocked(s *Session) bool {
	return st.now().UnixNano()-s.createdAt > int64(st.ttl)
}

func (st *Store) evictOldestLocked() {
	var oldestID string
	var oldest int64
	for id, s := range st.sessions {
		if oldestID == "" || s.createdAt < oldest {
			oldestID, oldest = id, s.createdAt
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}
