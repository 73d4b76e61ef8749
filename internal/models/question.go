package models

import "time"

// Content statuses. Questions and answers are never physically removed;
// "deleted" is a terminal status value.
const (
	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusDeleted = "deleted"
)

type Question struct {
	ID               int           `gorm:"primaryKey" json:"id"`
	Title            string        `gorm:"not null" json:"title"`
	Description      string        `gorm:"not null" json:"description"`
	AuthorID         int           `gorm:"index" json:"author_id"`
	User             User          `gorm:"foreignKey:AuthorID" json:"user"`
	Tags             []QuestionTag `gorm:"foreignKey:QuestionID" json:"-"`
	ViewCount        int           `gorm:"default:0" json:"view_count"`
	Status           string        `gorm:"default:active;index" json:"status"`
	AcceptedAnswerID *int          `json:"accepted_answer_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// QuestionTag is one (question, tag) pair. Tag rollups for the admin
// dashboard aggregate over these rows.
type QuestionTag struct {
	ID         int    `gorm:"primaryKey" json:"-"`
	QuestionID int    `gorm:"index" json:"-"`
	Tag        string `gorm:"index;not null" json:"tag"`
}

// TagNames flattens the tag rows for JSON responses.
func (q Question) TagNames() []string {
	names := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		names = append(names, t.Tag)
	}
	return names
}

type CreateQuestionRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
