package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/ports"
)

// RedisChallengeStore is a Redis implementation of ports.ChallengeStore
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
}

// NewRedisChallengeStore creates a new Redis challenge store
func NewRedisChallengeStore(client *redis.Client) ports.ChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "credenza:challenge:",
	}
}

// PutChallenge stores a challenge, replacing any prior one for the wallet.
// The Redis TTL runs past the challenge TTL so verification can still tell
// an expired challenge apart from a missing one.
func (s *RedisChallengeStore) PutChallenge(ctx context.Context, challenge *core.Challenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	key := s.prefix + challenge.Wallet
	if err := s.client.Set(ctx, key, payload, ttl*challengeRetentionFactor).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

// GetChallenge returns the live challenge for a wallet
func (s *RedisChallengeStore) GetChallenge(ctx context.Context, wallet string) (*core.Challenge, error) {
	payload, err := s.client.Get(ctx, s.prefix+wallet).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNoChallengeFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}

	var challenge core.Challenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	return &challenge, nil
}

// DeleteChallenge removes a wallet's challenge
func (s *RedisChallengeStore) DeleteChallenge(ctx context.Context, wallet string) error {
	if err := s.client.Del(ctx, s.prefix+wallet).Err(); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// RedisSessionStore is a Redis implementation of ports.SessionStore
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a new Redis session store
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "credenza:session:",
	}
}

// PutSession stores a session with a TTL matching its expiry
func (s *RedisSessionStore) PutSession(ctx context.Context, session *core.KycSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		// Already expired; storing it would resurrect a dead session
		return nil
	}

	key := s.prefix + session.ID
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession returns a session by id
func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (*core.KycSession, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	var session core.KycSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by id
func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op for Redis: keys carry their expiry as a TTL and
// are evicted by the server.
func (s *RedisSessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
