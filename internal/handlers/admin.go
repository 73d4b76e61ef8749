package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/mailer"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/notify"
	"github.com/stackit-qa/backend/internal/reports"
)

type AdminHandler struct {
	db         *gorm.DB
	dispatcher *notify.Dispatcher
	mail       *mailer.Mailer
	sms        *mailer.SMSSender
	reports    *reports.Generator
}

func NewAdminHandler(db *gorm.DB, dispatcher *notify.Dispatcher, mail *mailer.Mailer, sms *mailer.SMSSender, gen *reports.Generator) *AdminHandler {
	return &AdminHandler{db: db, dispatcher: dispatcher, mail: mail, sms: sms, reports: gen}
}

func (h *AdminHandler) counts() gin.H {
	var totalUsers, activeUsers, bannedUsers, totalQuestions, totalAnswers int64
	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.User{}).Where("last_seen >= ?", time.Now().AddDate(0, 0, -7)).Count(&activeUsers)
	h.db.Model(&models.User{}).Where("is_banned = ?", true).Count(&bannedUsers)
	h.db.Model(&models.Question{}).Count(&totalQuestions)
	h.db.Model(&models.Answer{}).Count(&totalAnswers)

	return gin.H{
		"totalUsers":     totalUsers,
		"activeUsers":    activeUsers,
		"bannedUsers":    bannedUsers,
		"totalQuestions": totalQuestions,
		"totalAnswers":   totalAnswers,
	}
}

// Dashboard returns the platform rollup for the admin landing page.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	analytics := h.counts()

	var recentQuestions []models.Question
	h.db.Preload("User").Order("created_at desc").Limit(10).Find(&recentQuestions)
	analytics["recentQuestions"] = recentQuestions
	analytics["topTags"] = reports.TopTags(h.db, 10)

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

// Statistics extends the dashboard counts with this-week activity.
func (h *AdminHandler) Statistics(c *gin.Context) {
	statistics := h.counts()

	weekAgo := time.Now().AddDate(0, 0, -7)
	var questionsThisWeek, answersThisWeek int64
	h.db.Model(&models.Question{}).Where("created_at >= ?", weekAgo).Count(&questionsThisWeek)
	h.db.Model(&models.Answer{}).Where("created_at >= ?", weekAgo).Count(&answersThisWeek)

	statistics["questionsThisWeek"] = questionsThisWeek
	statistics["answersThisWeek"] = answersThisWeek
	statistics["topTags"] = reports.TopTags(h.db, 10)

	c.JSON(http.StatusOK, gin.H{"statistics": statistics})
}

// GetUsers lists users with search, role and ban-status filters.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, limit, offset := pagination(c, 20)

	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	switch c.Query("status") {
	case "banned":
		query = query.Where("is_banned = ?", true)
	case "active":
		query = query.Where("is_banned = ?", false)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"total":       total,
		"pages":       (total + int64(limit) - 1) / int64(limit),
		"currentPage": page,
	})
}

// BanUser bans a user with a required reason and emails them.
func (h *AdminHandler) BanUser(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Reason) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{"reason", "Ban reason is required"}}})
		return
	}

	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.IsBanned = true
	user.BanReason = input.Reason
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ban user"})
		return
	}

	go h.mail.SendBanNotice(user, input.Reason)

	c.JSON(http.StatusOK, gin.H{"message": "User banned successfully", "user": user})
}

// UnbanUser clears the ban flag and reason and emails the user.
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.IsBanned = false
	user.BanReason = ""
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unban user"})
		return
	}

	go h.mail.SendUnbanNotice(user)

	c.JSON(http.StatusOK, gin.H{"message": "User unbanned successfully", "user": user})
}

// ChangeRole updates a user's role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var input struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Role {
	case models.RoleGuest, models.RoleUser, models.RoleAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{{"role", "Invalid role"}}})
		return
	}

	var user models.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.db.Model(&user).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully", "user": user})
}

// GetContent lists questions or answers for moderation.
func (h *AdminHandler) GetContent(c *gin.Context) {
	page, limit, offset := pagination(c, 20)
	status := c.Query("status")

	if c.DefaultQuery("type", "questions") == "answers" {
		query := h.db.Model(&models.Answer{})
		if status != "" {
			query = query.Where("status = ?", status)
		}
		var total int64
		query.Count(&total)

		var answers []models.Answer
		query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&answers)
		c.JSON(http.StatusOK, gin.H{
			"content":     answers,
			"total":       total,
			"pages":       (total + int64(limit) - 1) / int64(limit),
			"currentPage": page,
		})
		return
	}

	query := h.db.Model(&models.Question{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	query.Count(&total)

	var questions []models.Question
	query.Preload("User").Preload("Tags").Order("created_at desc").Offset(offset).Limit(limit).Find(&questions)
	c.JSON(http.StatusOK, gin.H{
		"content":     questions,
		"total":       total,
		"pages":       (total + int64(limit) - 1) / int64(limit),
		"currentPage": page,
	})
}

// DeleteContent soft-deletes a question or an answer. Deleting a question
// soft-deletes its answers too.
func (h *AdminHandler) DeleteContent(c *gin.Context) {
	id := c.Param("id")

	switch c.Param("type") {
	case "question":
		if err := h.db.Model(&models.Question{}).Where("id = ?", id).
			Update("status", models.StatusDeleted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content"})
			return
		}
		h.db.Model(&models.Answer{}).Where("question_id = ?", id).
			Update("status", models.StatusDeleted)
	case "answer":
		if err := h.db.Model(&models.Answer{}).Where("id = ?", id).
			Update("status", models.StatusDeleted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

// Announce fans a system notification out to every non-banned user, with
// optional email and SMS delivery.
func (h *AdminHandler) Announce(c *gin.Context) {
	var input struct {
		Title     string `json:"title"`
		Message   string `json:"message"`
		SendEmail bool   `json:"send_email"`
		SendSMS   bool   `json:"send_sms"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var errs []FieldError
	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, FieldError{"title", "Title is required"})
	}
	if strings.TrimSpace(input.Message) == "" {
		errs = append(errs, FieldError{"message", "Message is required"})
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	recipients, err := h.dispatcher.Announce(input.Title, input.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send announcement"})
		return
	}

	if input.SendEmail {
		go h.mail.SendAnnouncement(recipients, input.Title, input.Message)
	}
	if input.SendSMS {
		go h.sms.SendAnnouncement(recipients, input.Title, input.Message)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Announcement sent successfully",
		"recipients": len(recipients),
	})
}

// GenerateReport materializes a CSV artifact for the requested window.
func (h *AdminHandler) GenerateReport(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.DefaultQuery("start_date", "1970-01-01"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
		return
	}
	end, err := time.Parse("2006-01-02", c.DefaultQuery("end_date", time.Now().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
		return
	}
	end = end.Add(24*time.Hour - time.Second)

	switch c.Query("type") {
	case "user-activity":
		path, err := h.reports.UserActivity(start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Report generated successfully", "reportPath": path})

	case "content":
		questionsPath, answersPath, err := h.reports.Content(start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Report generated successfully",
			"reportPath": gin.H{
				"questions": questionsPath,
				"answers":   answersPath,
			},
		})

	case "analytics":
		analytics, path, err := h.reports.AnalyticsReport()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Report generated successfully",
			"reportPath": path,
			"analytics":  analytics,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report type"})
	}
}

// DownloadReport streams a previously generated artifact. The filename is
// sanitized so the handler cannot serve files outside the reports directory.
func (h *AdminHandler) DownloadReport(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == ".." || !strings.HasSuffix(filename, ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	path := filepath.Join(h.reports.Dir(), filename)
	c.FileAttachment(path, filename)
}
