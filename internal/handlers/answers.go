package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/mentions"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/notify"
)

type AnswerHandler struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
}

func NewAnswerHandler(db *gorm.DB, dispatcher *notify.Dispatcher) *AnswerHandler {
	return &AnswerHandler{db: db, dispatcher: dispatcher}
}

// CreateAnswer posts an answer, notifies the question author and any
// mentioned users.
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validateAnswerContent(input.Content); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	var question models.Question
	if err := h.db.First(&question, input.QuestionID).Error; err != nil || question.Status == models.StatusDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	answer := models.Answer{
		Content:    input.Content,
		AuthorID:   authorID,
		QuestionID: question.ID,
		Status:     models.StatusActive,
	}

	if err := h.db.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create answer"})
		return
	}

	h.db.Preload("User").First(&answer, answer.ID)

	if err := h.dispatcher.AnswerCreated(&question, &answer, answer.User); err != nil {
		log.Printf("answer notification failed: %v", err)
	}
	if recipients, err := mentions.Resolve(h.db, input.Content); err != nil {
		log.Printf("mention lookup failed: %v", err)
	} else if err := h.dispatcher.Mentioned(recipients, answer.User, &question, &answer, "an answer"); err != nil {
		log.Printf("mention notification failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

// VoteAnswer toggles the caller's vote on an answer.
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	voterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType must be upvote or downvote"})
		return
	}
	value, ok := parseVoteValue(input.VoteType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType must be upvote or downvote"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, c.Param("id")).Error; err != nil || answer.Status == models.StatusDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	message, err := applyVote(h.db, voterID, voteTarget{AnswerID: &answer.ID}, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	up, down := voteScore(h.db, voteTarget{AnswerID: &answer.ID})
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"upvotes":    up,
		"downvotes":  down,
		"vote_count": up - down,
	})
}

// AcceptAnswer marks an answer as the accepted one. Only the question
// author may accept, and a question never holds two accepted answers: the
// previous acceptance is cleared and the new one set in one transaction.
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, c.Param("id")).Error; err != nil || answer.Status == models.StatusDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only question author can accept answers"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_accepted = ?", answer.QuestionID, true).
			Update("is_accepted", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&answer).Update("is_accepted", true).Error; err != nil {
			return err
		}
		return tx.Model(&question).Update("accepted_answer_id", answer.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept answer"})
		return
	}

	var sender models.User
	h.db.First(&sender, userID)
	if err := h.dispatcher.AnswerAccepted(&question, &answer, sender); err != nil {
		log.Printf("accept notification failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// UpdateAnswer updates an answer (owner only).
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := validateAnswerContent(input.Content); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if answer.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own answers"})
		return
	}

	answer.Content = input.Content
	if err := h.db.Save(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update answer"})
		return
	}

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// DeleteAnswer soft-deletes an answer (owner or admin).
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Answer not found"})
		return
	}

	if answer.AuthorID != userID && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	if err := h.db.Model(&answer).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}
