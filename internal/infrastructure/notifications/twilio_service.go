package notifications

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/parkease/domain"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioServiceImpl implements domain.NotificationService.
// SMS goes through Twilio; email is only recorded in the log until a mail provider is wired.
// Message bodies carry sign-in links and reach the log only when logBodies is set.
type TwilioServiceImpl struct {
	api        messageCreator
	fromNumber string
	logBodies  bool
	log        zerolog.Logger
}

// NewTwilioService creates a new Twilio notification service.
// logBodies is meant for local development only.
func NewTwilioService(accountSID, authToken, fromNumber string, logBodies bool, log zerolog.Logger) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		api:        client.Api,
		fromNumber: fromNumber,
		logBodies:  logBodies,
		log:        log.With().Str("component", "notifications").Logger(),
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	// If credentials are not configured, log instead of sending
	if t.fromNumber == "" {
		t.undelivered(t.log.Info().Str("to", to), message).Msg("sms delivery skipped, twilio not configured")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	t.log.Debug().Str("to", to).Msg("sms sent")
	return nil
}

// SendEmail implements domain.NotificationService
func (t *TwilioServiceImpl) SendEmail(to, subject, body string) error {
	t.undelivered(t.log.Info().Str("to", to).Str("subject", subject), body).Msg("email queued to log")
	return nil
}

func (t *TwilioServiceImpl) undelivered(ev *zerolog.Event, body string) *zerolog.Event {
	if t.logBodies {
		return ev.Str("body", body)
	}
	return ev
}
