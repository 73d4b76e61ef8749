package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUserProfile returns a user's public profile with content stats.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var questions, answers, acceptedAnswers int64
	h.db.Model(&models.Question{}).Where("author_id = ? AND status = ?", user.ID, models.StatusActive).Count(&questions)
	h.db.Model(&models.Answer{}).Where("author_id = ? AND status = ?", user.ID, models.StatusActive).Count(&answers)
	h.db.Model(&models.Answer{}).Where("author_id = ? AND is_accepted = ?", user.ID, true).Count(&acceptedAnswers)

	profile := user.PublicProfile()
	profile["stats"] = gin.H{
		"questions":        questions,
		"answers":          answers,
		"accepted_answers": acceptedAnswers,
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// GetUserQuestions returns a user's active questions, paginated.
func (h *UserHandler) GetUserQuestions(c *gin.Context) {
	userID := c.Param("id")
	page, limit, offset := pagination(c, 10)

	query := h.db.Model(&models.Question{}).
		Where("author_id = ? AND status = ?", userID, models.StatusActive)

	var total int64
	query.Count(&total)

	var questions []models.Question
	if err := query.Preload("User").Preload("Tags").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":   questions,
		"total":       total,
		"pages":       (total + int64(limit) - 1) / int64(limit),
		"currentPage": page,
	})
}

// GetUserAnswers returns a user's active answers, paginated.
func (h *UserHandler) GetUserAnswers(c *gin.Context) {
	userID := c.Param("id")
	page, limit, offset := pagination(c, 10)

	query := h.db.Model(&models.Answer{}).
		Where("author_id = ? AND status = ?", userID, models.StatusActive)

	var total int64
	query.Count(&total)

	var answers []models.Answer
	if err := query.Preload("User").
		Order("created_at desc").Offset(offset).Limit(limit).
		Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user answers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers":     answers,
		"total":       total,
		"pages":       (total + int64(limit) - 1) / int64(limit),
		"currentPage": page,
	})
}
