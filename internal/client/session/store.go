// Package session tracks whether the user is signed in. The persisted
// credential record is read once at startup and written on login and logout;
// subscribers learn about every change of the authenticated flag.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anantaclub/ananta/internal/client/repositories/keyvalue"
	"github.com/anantaclub/ananta/internal/common"
	"github.com/anantaclub/ananta/internal/logging"
)

var ErrEmptyToken = errors.New("empty token")

// CacheClearer is cleared on logout so the next user never sees the
// previous user's profile.
type CacheClearer interface {
	ClearCache()
}

// Store holds the in-memory session state backed by the credential record.
type Store struct {
	kv    keyvalue.Repository
	cache CacheClearer
	log   logging.Logger

	once sync.Once

	mu            sync.RWMutex
	authenticated bool
	bootstrapping bool
	nextID        int
	subscribers   map[int]func(bool)
}

// NewStore returns a Store that reports bootstrapping until Bootstrap runs.
// cache and logger may be nil.
func NewStore(kv keyvalue.Repository, cache CacheClearer, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		kv:            kv,
		cache:         cache,
		log:           logger.With("component", "session"),
		bootstrapping: true,
		subscribers:   make(map[int]func(bool)),
	}
}

// Bootstrap restores the session from storage. Only the first call does any
// work. A storage failure leaves the user signed out.
func (s *Store) Bootstrap(ctx context.Context) {
	s.once.Do(func() {
		authenticated := false

		token, ok, err := s.kv.Get(ctx, common.TokenKey)
		switch {
		case err != nil:
			s.log.Error(ctx, "failed to read stored token, starting signed out", "error", err)
		case ok && token != "":
			authenticated = true
		}

		s.mu.Lock()
		s.bootstrapping = false
		subs := s.setLocked(authenticated)
		s.mu.Unlock()

		notify(subs, authenticated)
		s.log.Info(ctx, "session restored", "authenticated", authenticated)
	})
}

// SetAuthenticated changes the in-memory flag. Subscribers are notified only
// when the value actually changes.
func (s *Store) SetAuthenticated(v bool) {
	s.mu.Lock()
	subs := s.setLocked(v)
	s.mu.Unlock()

	notify(subs, v)
}

// setLocked updates the flag and returns the subscribers to notify, nil when
// the value did not change. s.mu must be held.
func (s *Store) setLocked(v bool) []func(bool) {
	if s.authenticated == v {
		return nil
	}
	s.authenticated = v
	subs := make([]func(bool), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(bool), v bool) {
	for _, fn := range subs {
		fn(v)
	}
}

// State reports both flags from one snapshot.
func (s *Store) State() (bootstrapping, authenticated bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapping, s.authenticated
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) IsBootstrapping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapping
}

// Subscribe registers fn for authenticated flag changes and returns a func
// that removes it.
func (s *Store) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Login persists the credential record and marks the session authenticated.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	err := s.kv.MultiSet(ctx,
		keyvalue.Pair{Key: common.TokenKey, Value: token},
		keyvalue.Pair{Key: common.AuthFlagKey, Value: "true"},
	)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	s.SetAuthenticated(true)
	s.log.Info(ctx, "signed in")
	return nil
}

// Logout removes the credential record, marks the session signed out and
// clears the profile cache. When storage fails nothing else changes, so the
// call can be retried.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.MultiRemove(ctx, common.TokenKey, common.AuthFlagKey); err != nil {
		s.log.Error(ctx, "failed to remove credentials", "error", err)
		return fmt.Errorf("remove credentials: %w", err)
	}

	s.SetAuthenticated(false)
	if s.cache != nil {
		s.cache.ClearCache()
	}
	s.log.Info(ctx, "signed out")
	return nil
}
