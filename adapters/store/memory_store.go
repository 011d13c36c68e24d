package store

import (
	"context"
	"sync"
	"time"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/ports"
)

// Challenges are retained for a window past their TTL so verification can
// tell an expired challenge apart from a missing one.
const challengeRetentionFactor = 2

// MemoryChallengeStore is an in-memory implementation of ports.ChallengeStore
type MemoryChallengeStore struct {
	mu         sync.RWMutex
	challenges map[string]challengeEntry
}

type challengeEntry struct {
	challenge core.Challenge
	evictAt   time.Time
}

// NewMemoryChallengeStore creates a new in-memory challenge store
func NewMemoryChallengeStore() ports.ChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]challengeEntry),
	}
}

// PutChallenge stores a challenge, replacing any prior one for the wallet
func (s *MemoryChallengeStore) PutChallenge(ctx context.Context, challenge *core.Challenge, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	evictAt := time.Now().Add(ttl * challengeRetentionFactor)
	s.challenges[challenge.Wallet] = challengeEntry{challenge: *challenge, evictAt: evictAt}

	// Evict lazily once the retention window passes
	go func() {
		time.Sleep(time.Until(evictAt))

		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if no newer challenge replaced this one
		if entry, exists := s.challenges[challenge.Wallet]; exists && !entry.evictAt.After(evictAt) {
			delete(s.challenges, challenge.Wallet)
		}
	}()

	return nil
}

// GetChallenge returns the live challenge for a wallet
func (s *MemoryChallengeStore) GetChallenge(ctx context.Context, wallet string) (*core.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.challenges[wallet]
	if !exists || time.Now().After(entry.evictAt) {
		return nil, core.ErrNoChallengeFound
	}

	challenge := entry.challenge
	return &challenge, nil
}

// DeleteChallenge removes a wallet's challenge
func (s *MemoryChallengeStore) DeleteChallenge(ctx context.Context, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, wallet)
	return nil
}

// MemorySessionStore is an in-memory implementation of ports.SessionStore
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]core.KycSession
}

// NewMemorySessionStore creates a new in-memory session store
func NewMemorySessionStore() ports.SessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]core.KycSession),
	}
}

// PutSession stores a session keyed by id
func (s *MemorySessionStore) PutSession(ctx context.Context, session *core.KycSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

// GetSession returns a session by id
func (s *MemorySessionStore) GetSession(ctx context.Context, id string) (*core.KycSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, core.ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a session by id
func (s *MemorySessionStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// PurgeExpired removes every session past its expiry
func (s *MemorySessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}
