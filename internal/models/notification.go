package models

import "time"

type NotificationType string

const (
	NotificationTypeAnswer  NotificationType = "answer"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeAccept  NotificationType = "accept"
	NotificationTypeSystem  NotificationType = "system"
)

// Notification is a persisted inbox entry. Live delivery is best effort;
// the stored row is the source of truth and survives missed pushes.
type Notification struct {
	ID          int              `gorm:"primaryKey" json:"id"`
	RecipientID int              `gorm:"not null;index" json:"recipient_id"`
	SenderID    *int             `gorm:"index" json:"sender_id,omitempty"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title       string           `gorm:"not null" json:"title"`
	Message     string           `json:"message"`
	QuestionID  *int             `json:"question_id,omitempty"`
	AnswerID    *int             `json:"answer_id,omitempty"`
	Link        string           `json:"link"`
	IsRead      bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
