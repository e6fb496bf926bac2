package ledger

import (
	"sync"
	"time"

	"github.com/pinkpay/offramp-engine/engine"
)

// Settlement is a single-shot, cancellable timer standing in for the
// payout rail's confirmation. The callback fires exactly once: a second
// resolution attempt, or a cancel after resolution, returns
// ErrAlreadyResolved.
type Settlement struct {
	mu       sync.Mutex
	timer    *time.Timer
	resolved bool
	fn       func()
}

// Schedule runs fn after delay unless the settlement is resolved or
// cancelled first.
func Schedule(delay time.Duration, fn func()) *Settlement {
	s := &Settlement{fn: fn}
	s.timer = time.AfterFunc(delay, func() { _ = s.Resolve() })
	return s
}

// Resolve fires the callback now.
func (s *Settlement) Resolve() error {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return engine.ErrAlreadyResolved
	}
	s.resolved = true
	s.timer.Stop()
	fn := s.fn
	s.mu.Unlock()

	fn()
	return nil
}

// Cancel stops the timer without firing the callback.
func (s *Settlement) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return engine.ErrAlreadyResolved
	}
	s.resolved = true
	s.timer.Stop()
	return nil
}
