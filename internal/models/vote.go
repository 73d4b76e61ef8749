package models

import "time"

// Vote values
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote tracks a single user's vote on a question or an answer. Exactly one
// of QuestionID/AnswerID is set. The unique indexes hold one row per
// (user, target); net score = count(+1) - count(-1), computed on read.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_question_vote;uniqueIndex:idx_answer_vote" json:"user_id"`
	QuestionID *int      `gorm:"uniqueIndex:idx_question_vote" json:"question_id,omitempty"`
	AnswerID   *int      `gorm:"uniqueIndex:idx_answer_vote" json:"answer_id,omitempty"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
