package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/mailer"
	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/notify"
	"github.com/stackit-qa/backend/internal/realtime"
	"github.com/stackit-qa/backend/internal/reports"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	User         *UserHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
	Realtime     *RealtimeHandler
}

// NewHandler creates a unified handler with all sub-handlers. Every
// dependency is passed in explicitly; nothing reaches for process-wide
// state.
func NewHandler(db *gorm.DB, hub *realtime.Hub, mail *mailer.Mailer, sms *mailer.SMSSender, gen *reports.Generator) *Handler {
	dispatcher := notify.NewDispatcher(db, hub)

	return &Handler{
		Auth:         NewAuthHandler(db, mail),
		Question:     NewQuestionHandler(db, dispatcher),
		Answer:       NewAnswerHandler(db, dispatcher),
		User:         NewUserHandler(db),
		Notification: NewNotificationHandler(db),
		Admin:        NewAdminHandler(db, dispatcher, mail, sms, gen),
		Realtime:     NewRealtimeHandler(hub),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == models.RoleAdmin
}
