package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/mentions"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/notify"
)

type QuestionHandler struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
}

func NewQuestionHandler(db *gorm.DB, dispatcher *notify.Dispatcher) *QuestionHandler {
	return &QuestionHandler{db: db, dispatcher: dispatcher}
}

func pagination(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

func (h *QuestionHandler) questionResponse(q models.Question) gin.H {
	up, down := voteScore(h.db, voteTarget{QuestionID: &q.ID})
	var answerCount int64
	h.db.Model(&models.Answer{}).
		Where("question_id = ? AND status = ?", q.ID, models.StatusActive).
		Count(&answerCount)

	return gin.H{
		"id":                 q.ID,
		"title":              q.Title,
		"description":        q.Description,
		"author_id":          q.AuthorID,
		"user":               q.User.PublicProfile(),
		"tags":               q.TagNames(),
		"upvotes":            up,
		"downvotes":          down,
		"vote_count":         up - down,
		"view_count":         q.ViewCount,
		"answer_count":       answerCount,
		"status":             q.Status,
		"accepted_answer_id": q.AcceptedAnswerID,
		"created_at":         q.CreatedAt,
		"updated_at":         q.UpdatedAt,
	}
}

func (h *QuestionHandler) answerResponse(a models.Answer) gin.H {
	up, down := voteScore(h.db, voteTarget{AnswerID: &a.ID})
	return gin.H{
		"id":          a.ID,
		"content":     a.Content,
		"author_id":   a.AuthorID,
		"user":        a.User.PublicProfile(),
		"question_id": a.QuestionID,
		"upvotes":     up,
		"downvotes":   down,
		"vote_count":  up - down,
		"is_accepted": a.IsAccepted,
		"status":      a.Status,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	}
}

// GetQuestions lists active questions with pagination, sorting, tag filter
// and search.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, limit, offset := pagination(c, 10)

	query := h.db.Model(&models.Question{}).Where("questions.status = ?", models.StatusActive)

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	if tag := c.Query("tag"); tag != "" {
		query = query.
			Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Where("question_tags.tag = ?", strings.ToLower(tag))
	}

	var total int64
	query.Count(&total)

	switch c.DefaultQuery("sort", "newest") {
	case "oldest":
		query = query.Order("questions.created_at asc")
	case "votes":
		query = query.Order("(SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.question_id = questions.id) DESC")
	case "views":
		query = query.Order("questions.view_count desc")
	default:
		query = query.Order("questions.created_at desc")
	}

	var questions []models.Question
	if err := query.Preload("User").Preload("Tags").Offset(offset).Limit(limit).Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	responses := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, h.questionResponse(q))
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":   responses,
		"total":       total,
		"pages":       (total + int64(limit) - 1) / int64(limit),
		"currentPage": page,
	})
}

// GetQuestion returns a single question with its answers. Viewing bumps the
// view counter with an SQL-level increment so it only ever grows.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.Param("id")

	var question models.Question
	if err := h.db.Preload("User").Preload("Tags").First(&question, questionID).Error; err != nil || question.Status == models.StatusDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	h.db.Model(&question).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	question.ViewCount++

	var answers []models.Answer
	h.db.Preload("User").
		Where("question_id = ? AND status = ?", question.ID, models.StatusActive).
		Order("is_accepted DESC").
		Order("(SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.answer_id = answers.id) DESC").
		Order("created_at ASC").
		Find(&answers)

	answerResponses := make([]gin.H, 0, len(answers))
	for _, a := range answers {
		answerResponses = append(answerResponses, h.answerResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"question": h.questionResponse(question),
		"answers":  answerResponses,
	})
}

// CreateQuestion creates a question and notifies mentioned users.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := validateQuestion(input.Title, input.Description, input.Tags, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	question := models.Question{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    authorID,
		Status:      models.StatusActive,
	}
	for _, tag := range normalizeTags(input.Tags) {
		question.Tags = append(question.Tags, models.QuestionTag{Tag: tag})
	}

	if err := h.db.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	h.db.Preload("User").Preload("Tags").First(&question, question.ID)

	if recipients, err := mentions.Resolve(h.db, input.Description); err != nil {
		log.Printf("mention lookup failed: %v", err)
	} else if err := h.dispatcher.Mentioned(recipients, question.User, &question, nil, "a question"); err != nil {
		log.Printf("mention notification failed: %v", err)
	}

	c.JSON(http.StatusCreated, gin.H{"question": h.questionResponse(question)})
}

// UpdateQuestion updates a question (owner or admin).
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.Param("id")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := h.db.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	if errs := validateQuestion(input.Title, input.Description, input.Tags, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	if input.Title != "" {
		question.Title = input.Title
	}
	if input.Description != "" {
		question.Description = input.Description
	}
	if err := h.db.Save(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	if input.Tags != nil {
		h.db.Where("question_id = ?", question.ID).Delete(&models.QuestionTag{})
		for _, tag := range normalizeTags(input.Tags) {
			h.db.Create(&models.QuestionTag{QuestionID: question.ID, Tag: tag})
		}
	}

	h.db.Preload("User").Preload("Tags").First(&question, question.ID)
	c.JSON(http.StatusOK, gin.H{"question": h.questionResponse(question)})
}

// VoteQuestion toggles the caller's vote on a question.
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
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

	var question models.Question
	if err := h.db.First(&question, c.Param("id")).Error; err != nil || question.Status == models.StatusDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	message, err := applyVote(h.db, voterID, voteTarget{QuestionID: &question.ID}, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	up, down := voteScore(h.db, voteTarget{QuestionID: &question.ID})
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"upvotes":    up,
		"downvotes":  down,
		"vote_count": up - down,
	})
}

// DeleteQuestion soft-deletes a question (owner or admin).
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var question models.Question
	if err := h.db.First(&question, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}

	if question.AuthorID != userID && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		return
	}

	if err := h.db.Model(&question).Update("status", models.StatusDeleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
