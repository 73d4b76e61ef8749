package mailer

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/stackit-qa/backend/internal/models"
)

// SMSSender delivers announcements by text message through Twilio.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

// NewSMSFromEnv builds an SMSSender from TWILIO_* environment variables.
// Returns nil when unconfigured; a nil sender drops every send.
func NewSMSFromEnv() *SMSSender {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if sid == "" || token == "" || from == "" {
		return nil
	}

	return &SMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: from,
	}
}

func (s *SMSSender) Send(to, body string) error {
	if s == nil {
		log.Printf("📱 SMS dropped (Twilio not configured): to %s", to)
		return nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	return nil
}

// SendAnnouncement texts every user that has a phone number on file.
func (s *SMSSender) SendAnnouncement(users []models.User, title, message string) {
	body := fmt.Sprintf("StackIt: %s - %s", title, message)
	for _, user := range users {
		if user.Phone == "" {
			continue
		}
		if err := s.Send(user.Phone, body); err != nil {
			log.Printf("❌ Announcement SMS failed: %v", err)
		}
	}
}
