// Package notify persists notifications and pushes them to connected
// recipients. Durability comes first: the row is written before any live
// delivery is attempted, and a failed push never fails the caller.
package notify

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/realtime"
)

// announceBatchSize bounds a single insert when fanning out to every user.
const announceBatchSize = 200

type Dispatcher struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewDispatcher(db *gorm.DB, hub *realtime.Hub) *Dispatcher {
	return &Dispatcher{db: db, hub: hub}
}

// Notify persists n and then attempts a live push to the recipient.
func (d *Dispatcher) Notify(n *models.Notification) error {
	if err := d.db.Create(n).Error; err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	d.push(n)
	return nil
}

func (d *Dispatcher) push(n *models.Notification) {
	if d.hub != nil {
		d.hub.Push(n.RecipientID, "notification", n)
	}
}

// AnswerCreated notifies the question author about a new answer. Answering
// your own question produces no notification.
func (d *Dispatcher) AnswerCreated(question *models.Question, answer *models.Answer, sender models.User) error {
	if question.AuthorID == answer.AuthorID {
		return nil
	}

	return d.Notify(&models.Notification{
		RecipientID: question.AuthorID,
		SenderID:    &sender.ID,
		Type:        models.NotificationTypeAnswer,
		Title:       "New answer to your question",
		Message:     fmt.Sprintf("%s answered your question %q", sender.Username, question.Title),
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
		Link:        fmt.Sprintf("/questions/%d#answer-%d", question.ID, answer.ID),
	})
}

// Mentioned notifies each resolved recipient once. The sender is skipped;
// mentioning yourself is a no-op. answer may be nil for question bodies.
func (d *Dispatcher) Mentioned(recipients []models.User, sender models.User, question *models.Question, answer *models.Answer, context string) error {
	link := fmt.Sprintf("/questions/%d", question.ID)
	var answerID *int
	if answer != nil {
		answerID = &answer.ID
		link = fmt.Sprintf("/questions/%d#answer-%d", question.ID, answer.ID)
	}

	for _, recipient := range recipients {
		if recipient.ID == sender.ID {
			continue
		}
		err := d.Notify(&models.Notification{
			RecipientID: recipient.ID,
			SenderID:    &sender.ID,
			Type:        models.NotificationTypeMention,
			Title:       "You were mentioned",
			Message:     fmt.Sprintf("%s mentioned you in %s", sender.Username, context),
			QuestionID:  &question.ID,
			AnswerID:    answerID,
			Link:        link,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AnswerAccepted notifies the answer author. Accepting your own answer
// produces no notification.
func (d *Dispatcher) AnswerAccepted(question *models.Question, answer *models.Answer, sender models.User) error {
	if answer.AuthorID == sender.ID {
		return nil
	}

	return d.Notify(&models.Notification{
		RecipientID: answer.AuthorID,
		SenderID:    &sender.ID,
		Type:        models.NotificationTypeAccept,
		Title:       "Your answer was accepted",
		Message:     fmt.Sprintf("%s accepted your answer", sender.Username),
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
		Link:        fmt.Sprintf("/questions/%d#answer-%d", question.ID, answer.ID),
	})
}

// Announce creates one system notification per non-banned user, inserting
// in batches, then pushes to whoever is connected. Returns the recipients
// so callers can run their email or SMS fan-out.
func (d *Dispatcher) Announce(title, message string) ([]models.User, error) {
	var users []models.User
	if err := d.db.Where("is_banned = ?", false).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load announcement recipients: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	notifications := make([]models.Notification, 0, len(users))
	for _, user := range users {
		notifications = append(notifications, models.Notification{
			RecipientID: user.ID,
			Type:        models.NotificationTypeSystem,
			Title:       title,
			Message:     message,
			Link:        "/",
		})
	}

	if err := d.db.CreateInBatches(&notifications, announceBatchSize).Error; err != nil {
		return nil, fmt.Errorf("persist announcement: %w", err)
	}

	for i := range notifications {
		d.push(&notifications[i])
	}
	return users, nil
}
