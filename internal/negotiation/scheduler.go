package negotiation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReplyScheduler defers the scripted seller reply so the conversation
// reads as paced rather than instantaneous. At most one reply is
// outstanding per session: scheduling again replaces the previous one,
// and Cancel discards it before it fires.
type ReplyScheduler interface {
	Schedule(sessionID uuid.UUID, delay time.Duration, fn func())
	Cancel(sessionID uuid.UUID)
	Stop()
}

// TimerScheduler backs ReplyScheduler with one time.Timer per session.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: map[uuid.UUID]*time.Timer{}}
}

func (s *TimerScheduler) Schedule(sessionID uuid.UUID, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, sessionID)
		s.mu.Unlock()
		fn()
	})
}

func (s *TimerScheduler) Cancel(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
}

// Stop discards every outstanding reply; used on shutdown.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many replies are scheduled but not yet delivered.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// ImmediateScheduler delivers replies inline with no delay. It serves
// tests and deployments configured with a zero reply delay.
type ImmediateScheduler struct{}

func (ImmediateScheduler) Schedule(_ uuid.UUID, _ time.Duration, fn func()) { fn() }

func (ImmediateScheduler) Cancel(uuid.UUID) {}

func (ImmediateScheduler) Stop() {}
