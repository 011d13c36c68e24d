package ports

import (
	"context"

	"github.com/lumina-markets/credenza/core"
)

// EventPublisher publishes lifecycle events to notify other services
type EventPublisher interface {
	PublishCredentialIssued(ctx context.Context, holder, issuer string, credType core.CredentialType, signature string) error
	PublishCredentialRevoked(ctx context.Context, holder, authority, reason string, signature string) error
	PublishSessionCompleted(ctx context.Context, sessionID, wallet string, credType core.CredentialType, signature string) error
}
