package ports

import (
	"context"
	"time"

	"github.com/lumina-markets/credenza/core"
)

// ChallengeStore holds at most one live challenge per wallet. Put overwrites
// any prior challenge, invalidating it.
type ChallengeStore interface {
	PutChallenge(ctx context.Context, challenge *core.Challenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, wallet string) (*core.Challenge, error)
	DeleteChallenge(ctx context.Context, wallet string) error
}

// SessionStore persists KYC sessions for their TTL. Lookups after expiry
// answer core.ErrSessionNotFound.
type SessionStore interface {
	PutSession(ctx context.Context, session *core.KycSession) error
	GetSession(ctx context.Context, id string) (*core.KycSession, error)
	DeleteSession(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
