package handlers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

// voteTarget identifies the entity being voted on. Exactly one field is set.
type voteTarget struct {
	QuestionID *int
	AnswerID   *int
}

func parseVoteValue(voteType string) (int, bool) {
	switch voteType {
	case "upvote":
		return models.VoteUp, true
	case "downvote":
		return models.VoteDown, true
	default:
		return 0, false
	}
}

// applyVote is the single toggle path shared by questions and answers.
// Voting the same direction twice removes the vote; voting the opposite
// direction switches it. A voter never holds more than one row per target.
// The whole toggle runs in one transaction so concurrent calls cannot
// leave a voter in both directions.
func applyVote(db *gorm.DB, voterID int, target voteTarget, value int) (string, error) {
	message := ""
	err := db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", voterID)
		if target.QuestionID != nil {
			query = query.Where("question_id = ?", *target.QuestionID)
		} else {
			query = query.Where("answer_id = ?", *target.AnswerID)
		}

		var existing models.Vote
		err := query.First(&existing).Error
		switch {
		case err == nil && existing.Value == value:
			// Same direction again: toggle off.
			message = "Vote removed"
			return tx.Delete(&existing).Error
		case err == nil:
			// Opposite direction: switch.
			existing.Value = value
			message = "Vote updated"
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			message = "Vote recorded"
			return tx.Create(&models.Vote{
				UserID:     voterID,
				QuestionID: target.QuestionID,
				AnswerID:   target.AnswerID,
				Value:      value,
			}).Error
		default:
			return err
		}
	})
	return message, err
}

// voteScore recomputes up/down counts for a target on read.
func voteScore(db *gorm.DB, target voteTarget) (up int64, down int64) {
	query := func() *gorm.DB {
		q := db.Model(&models.Vote{})
		if target.QuestionID != nil {
			return q.Where("question_id = ?", *target.QuestionID)
		}
		return q.Where("answer_id = ?", *target.AnswerID)
	}
	query().Where("value = ?", models.VoteUp).Count(&up)
	query().Where("value = ?", models.VoteDown).Count(&down)
	return up, down
}
