package events

import (
	"context"
	"encoding/json"
	"fmt"

	nats "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/you/parkease/domain"
)

// Publisher is the slice of *nats.Conn the audit logger needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// AuditLoggerImpl implements domain.AuditLogger.
// Every event is logged; it is also published when a NATS connection is available.
type AuditLoggerImpl struct {
	log       zerolog.Logger
	publisher Publisher
	subject   string
}

// NewAuditLogger creates an audit logger. conn may be nil.
func NewAuditLogger(log zerolog.Logger, conn *nats.Conn, subject string) domain.AuditLogger {
	a := &AuditLoggerImpl{
		log:     log.With().Str("component", "audit").Logger(),
		subject: subject,
	}
	if conn != nil {
		a.publisher = conn
	}
	return a
}

// LogEvent implements domain.AuditLogger
func (a *AuditLoggerImpl) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	entry := a.log.Info()
	if !event.Success {
		entry = a.log.Warn().Str("error", event.ErrorMsg)
	}
	entry.
		Str("event_type", string(event.EventType)).
		Uint("user_id", event.UserID).
		Str("email", event.Email).
		Str("session_id", event.SessionID).
		Fields(event.Metadata).
		Msg("audit event")

	if a.publisher == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}
	if err := a.publisher.Publish(a.subject, data); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	return nil
}
