package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/lifesweeper/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Session is a live game. State must only be touched through Update or View.
type Session struct {
	ID        string
	PlayerID  *int64
	StartedAt time.Time

	mu      sync.Mutex
	state   *mines.GameState
	endedAt *time.Time
	touched time.Time
	now     func() time.Time
}

// Update runs fn under the session lock. It reports whether the game turned
// terminal during this call.
func (s *Session) Update(fn func(state *mines.GameState)) (ended bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasTerminal := s.state.Status.Terminal()
	fn(s.state)
	s.touched = s.now()
	if !wasTerminal && s.state.Status.Terminal() {
		endedAt := s.touched
		s.endedAt = &endedAt
		return true
	}
	return false
}

// View runs fn under the session lock without refreshing its idle timer.
func (s *Session) View(fn func(state *mines.GameState, endedAt *time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.state, s.endedAt)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.touched
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Logger
}

func New(log *logrus.Logger, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
}

func newID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

func (s *Store) Create(state *mines.GameState, playerID *int64) *Session {
	now := s.now()
	session := &Session{
		ID:        newID(),
		PlayerID:  playerID,
		StartedAt: now,
		state:     state,
		touched:   now,
		now:       s.now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Retrieve a session. If id is not present, [ErrNotFound] is returned.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Deletes id from store without checking if it existed.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep drops every session idle for longer than the store ttl and returns
// how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.log.WithFields(logrus.Fields{
					"removed": removed,
					"live":    s.Len(),
				}).Info("evicted idle sessions")
			}
		}
	}
}
