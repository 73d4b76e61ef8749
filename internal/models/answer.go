package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"not null" json:"content"`
	AuthorID   int       `gorm:"index" json:"author_id"`
	User       User      `gorm:"foreignKey:AuthorID" json:"user"`
	QuestionID int       `gorm:"index" json:"question_id"`
	IsAccepted bool      `gorm:"default:false" json:"is_accepted"`
	Status     string    `gorm:"default:active;index" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content    string `json:"content"`
	QuestionID int    `json:"question_id"`
}
