package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/lumina-markets/credenza/core"
	"github.com/lumina-markets/credenza/ports"
)

const (
	TopicCredentialIssued  = "credenza.credential.issued"
	TopicCredentialRevoked = "credenza.credential.revoked"
	TopicSessionCompleted  = "credenza.kyc.session.completed"
)

// CredentialIssuedEvent signals a new credential on the ledger
type CredentialIssuedEvent struct {
	Holder    string `json:"holder"`
	Issuer    string `json:"issuer"`
	Type      string `json:"credentialType"`
	Signature string `json:"ledgerSignature"`
	At        int64  `json:"at"`
}

// CredentialRevokedEvent signals a terminal revocation
type CredentialRevokedEvent struct {
	Holder    string `json:"holder"`
	Authority string `json:"authority"`
	Reason    string `json:"reason"`
	Signature string `json:"ledgerSignature"`
	At        int64  `json:"at"`
}

// SessionCompletedEvent signals a KYC session that ended in issuance
type SessionCompletedEvent struct {
	SessionID string `json:"sessionId"`
	Wallet    string `json:"wallet"`
	Type      string `json:"credentialType"`
	Signature string `json:"ledgerSignature"`
	At        int64  `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishCredentialIssued publishes a credential issued event
func (p *WatermillPublisher) PublishCredentialIssued(ctx context.Context, holder, issuer string, credType core.CredentialType, signature string) error {
	return p.publish(TopicCredentialIssued, CredentialIssuedEvent{
		Holder:    holder,
		Issuer:    issuer,
		Type:      string(credType),
		Signature: signature,
		At:        time.Now().Unix(),
	})
}

// PublishCredentialRevoked publishes a credential revoked event
func (p *WatermillPublisher) PublishCredentialRevoked(ctx context.Context, holder, authority, reason string, signature string) error {
	return p.publish(TopicCredentialRevoked, CredentialRevokedEvent{
		Holder:    holder,
		Authority: authority,
		Reason:    reason,
		Signature: signature,
		At:        time.Now().Unix(),
	})
}

// PublishSessionCompleted publishes a session completed event
func (p *WatermillPublisher) PublishSessionCompleted(ctx context.Context, sessionID, wallet string, credType core.CredentialType, signature string) error {
	return p.publish(TopicSessionCompleted, SessionCompletedEvent{
		SessionID: sessionID,
		Wallet:    wallet,
		Type:      string(credType),
		Signature: signature,
		At:        time.Now().Unix(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
