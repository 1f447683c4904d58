package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/dom"
	"github.com/goliatone/go-equitysite/pkg/nav"
)

// Session is one visitor's page: the mounted header and the contact form
// share the page's dispatch lock.
type Session struct {
	ID   string
	CSRF string

	Page   *dom.Page
	Header *nav.Header
	Form   *contact.Form

	lastSeen time.Time
}

// Do runs fn under the page's dispatch lock.
func (s *Session) Do(fn func()) {
	s.Page.Do(fn)
}

func (s *Session) close() {
	s.Page.Do(func() {
		s.Header.Unmount()
		s.Form.Dispose()
	})
}

// SessionFactory builds the per-visitor components.
type SessionFactory func(clock clockwork.Clock) (*dom.Page, *nav.Header, *contact.Form, error)

// SessionStore holds live sessions and evicts idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	ttl     time.Duration
	clock   clockwork.Clock
	logger  *log.Logger
	factory SessionFactory
}

// NewSessionStore returns an empty store.
func NewSessionStore(ttl time.Duration, clock clockwork.Clock, logger *log.Logger, factory SessionFactory) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
		logger:   logger,
		factory:  factory,
	}
}

// Create builds and registers a new session.
func (st *SessionStore) Create() (*Session, error) {
	page, header, form, err := st.factory(st.clock)
	if err != nil {
		return nil, fmt.Errorf("server: new session: %w", err)
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:       uuid.NewString(),
		CSRF:     token,
		Page:     page,
		Header:   header,
		Form:     form,
		lastSeen: st.clock.Now(),
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return sess, nil
}

// Get returns the live session for id and marks it as seen.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if st.expired(sess, st.clock.Now()) {
		return nil, false
	}
	sess.lastSeen = st.clock.Now()
	return sess, true
}

// Delete drops and releases the session for id.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		sess.close()
	}
	return ok
}

// Len returns the number of registered sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts every session idle for longer than the TTL and reports how
// many were released.
func (st *SessionStore) Sweep() int {
	now := st.clock.Now()

	st.mu.Lock()
	var idle []*Session
	for id, sess := range st.sessions {
		if st.expired(sess, now) {
			idle = append(idle, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range idle {
		sess.close()
		st.logger.Printf("session %s evicted after %s idle", shortID(sess.ID), st.ttl)
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done, then releases every session.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := st.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.CloseAll()
			return
		case <-ticker.Chan():
			st.Sweep()
		}
	}
}

// CloseAll releases every session.
func (st *SessionStore) CloseAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, sess := range all {
		sess.close()
	}
}

func (st *SessionStore) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.lastSeen) > st.ttl
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("server: csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
