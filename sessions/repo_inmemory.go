package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTTL           = 10 * time.Minute
	DefaultSweepInterval = 5 * time.Minute

	sessionIDLength = 32 // bytes, hex encoded
	stateLength     = 16 // bytes, hex encoded
)

var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a thread-safe in-memory implementation of Store with a
// background sweeper for expired sessions.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	nowTime func() time.Time
	random  func([]byte) (int, error)

	stop      chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
	wg        sync.WaitGroup
}

// InMemoryStoreOption defines a function type to modify the InMemoryStore instance.
type InMemoryStoreOption func(*InMemoryStore)

// WithTTL sets the session lifetime
func WithTTL(ttl time.Duration) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.nowTime = nowFunc
	}
}

// WithRandomSource replaces crypto/rand (primarily for testing failures)
func WithRandomSource(read func([]byte) (int, error)) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.random = read
	}
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore(options ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		nowTime:  time.Now,
		random:   rand.Read,
		stop:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Create() (Session, error) {
	state, err := s.randomHex(stateLength)
	if err != nil {
		return Session{}, err
	}

	now := s.nowTime()

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	for {
		id, err = s.randomHex(sessionIDLength)
		if err != nil {
			return Session{}, err
		}
		if _, exists := s.sessions[id]; !exists {
			break
		}
	}

	session := &Session{
		ID:        id,
		State:     state,
		Status:    StatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[id] = session
	return session.clone(), nil
}

func (s *InMemoryStore) Get(sessionID string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.RUnlock()
		return Session{}, apperrors.ErrSessionNotFound
	}
	if !session.IsExpired(s.nowTime()) {
		out := session.clone()
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.lookupLocked(sessionID)
	return Session{}, err
}

func (s *InMemoryStore) Update(sessionID string, transition Transition) error {
	if !transition.valid() {
		return fmt.Errorf("[InMemoryStore Update] invalid transition to %q", transition.status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(sessionID)
	if err != nil {
		return err
	}
	if session.Status.IsTerminal() {
		return apperrors.ErrSessionTerminal
	}
	transition.apply(session)
	return nil
}

func (s *InMemoryStore) Consume(sessionID string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookupLocked(sessionID)
	if err != nil {
		return Session{}, err
	}
	if session.Status == StatusSuccess {
		delete(s.sessions, sessionID)
	}
	return session.clone(), nil
}

func (s *InMemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) Sweep() int {
	now := s.nowTime()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper runs Sweep every interval on a background goroutine until Close.
// Calling it more than once has no effect.
func (s *InMemoryStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.sweepLoop(interval)
	})
}

// Close stops the sweeper and waits for it to exit
func (s *InMemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
	return nil
}

func (s *InMemoryStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Debug().Int("removed", removed).Msg("sessions: swept expired sessions")
			}
		}
	}
}

// lookupLocked returns the live session, evicting it when expired. Caller holds the write lock.
func (s *InMemoryStore) lookupLocked(sessionID string) (*Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if session.IsExpired(s.nowTime()) {
		delete(s.sessions, sessionID)
		return nil, apperrors.ErrSessionExpired
	}
	return session, nil
}

func (s *InMemoryStore) randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := s.random(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
