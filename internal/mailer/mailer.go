// Package mailer sends outbound email and SMS. All sends are fire and
// forget from the caller's point of view: failures are logged and never
// block or fail the triggering request.
package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/stackit-qa/backend/internal/models"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewFromEnv builds a Mailer from SMTP_* environment variables. Returns nil
// when SMTP_HOST is unset; a nil Mailer drops every send with a log line.
func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	user := os.Getenv("SMTP_USER")
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, os.Getenv("SMTP_PASS")),
		from:   fmt.Sprintf("StackIt <%s>", user),
	}
}

func (m *Mailer) Send(to, subject, html string) error {
	if m == nil {
		log.Printf("📧 Email dropped (SMTP not configured): %q to %s", subject, to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (m *Mailer) SendWelcome(user models.User) {
	html := fmt.Sprintf(
		"<h2>Welcome to StackIt!</h2><p>Hi %s,</p>"+
			"<p>Welcome to StackIt - your community for collaborative learning and knowledge sharing!</p>"+
			"<p>Best regards,<br>The StackIt Team</p>",
		user.Username,
	)
	if err := m.Send(user.Email, "Welcome to StackIt! 🎉", html); err != nil {
		log.Printf("❌ Welcome email failed: %v", err)
	}
}

func (m *Mailer) SendBanNotice(user models.User, reason string) {
	body := fmt.Sprintf("Your account has been banned for: %s", reason)
	if err := m.Send(user.Email, "Account Banned - StackIt", body); err != nil {
		log.Printf("❌ Ban email failed: %v", err)
	}
}

func (m *Mailer) SendUnbanNotice(user models.User) {
	body := "Your account has been unbanned. You can now access the platform again."
	if err := m.Send(user.Email, "Account Unbanned - StackIt", body); err != nil {
		log.Printf("❌ Unban email failed: %v", err)
	}
}

// SendAnnouncement mails every given user. One failure does not stop the
// rest of the batch.
func (m *Mailer) SendAnnouncement(users []models.User, title, message string) {
	subject := fmt.Sprintf("StackIt Announcement: %s", title)
	html := fmt.Sprintf("<h2>📢 StackIt Announcement</h2><h3>%s</h3><p>%s</p>", title, message)
	for _, user := range users {
		if err := m.Send(user.Email, subject, html); err != nil {
			log.Printf("❌ Announcement email failed: %v", err)
		}
	}
}
