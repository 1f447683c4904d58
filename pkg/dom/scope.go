package dom

import (
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
)

// ErrScopeClosed is returned when registering against a scope that has
// already been torn down.
var ErrScopeClosed = errors.New("dom: scope closed")

// Scope owns the listeners and timers a mounted component acquired on shared
// targets. Close releases all of them; nothing registered through a scope
// outlives it.
type Scope struct {
	mu     sync.Mutex
	regs   []*Registration
	timers []clockwork.Timer
	closed bool
}

// NewScope returns an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Listen registers fn on target and records the registration.
func (s *Scope) Listen(target *Target, typ EventType, fn Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrScopeClosed
	}
	s.regs = append(s.regs, target.AddListener(typ, fn))
	return nil
}

// Own ties timer to the scope so Close stops it. Owning a timer on a closed
// scope stops it immediately.
func (s *Scope) Own(timer clockwork.Timer) {
	if timer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		timer.Stop()
		return
	}
	s.timers = append(s.timers, timer)
}

// Close releases every registration and stops every owned timer. Calling it
// more than once is safe.
func (s *Scope) Close() {
	s.mu.Lock()
	regs, timers := s.regs, s.timers
	s.regs, s.timers = nil, nil
	s.closed = true
	s.mu.Unlock()

	for _, reg := range regs {
		reg.Release()
	}
	for _, timer := range timers {
		timer.Stop()
	}
}

// Closed reports whether Close has run.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the number of live registrations.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}
