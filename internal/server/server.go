package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stackit-qa/backend/internal/database"
	"github.com/stackit-qa/backend/internal/handlers"
	"github.com/stackit-qa/backend/internal/mailer"
	"github.com/stackit-qa/backend/internal/middleware"
	"github.com/stackit-qa/backend/internal/realtime"
	"github.com/stackit-qa/backend/internal/reports"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()
	hub := realtime.NewHub()
	mail := mailer.NewFromEnv()
	sms := mailer.NewSMSFromEnv()

	reportsDir := os.Getenv("REPORTS_DIR")
	if reportsDir == "" {
		reportsDir = "reports"
	}
	gen := reports.NewGenerator(db.GetDB(), reportsDir)

	handler := handlers.NewHandler(db.GetDB(), hub, mail, sms, gen)

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)

		// Question routes (public reads, identity attached when present)
		public := api.Group("")
		public.Use(middleware.OptionalAuth())
		{
			public.GET("/questions", s.handler.Question.GetQuestions)
			public.GET("/questions/:id", s.handler.Question.GetQuestion)
		}

		// User routes (public reads)
		api.GET("/users/:id", s.handler.User.GetUserProfile)
		api.GET("/users/:id/questions", s.handler.User.GetUserQuestions)
		api.GET("/users/:id/answers", s.handler.User.GetUserAnswers)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			// Live-push channel
			protected.GET("/ws", s.handler.Realtime.Serve)

			// Question protected routes
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.POST("/questions/:id/vote", s.handler.Question.VoteQuestion)

			// Answer protected routes
			protected.POST("/answers", s.handler.Answer.CreateAnswer)
			protected.POST("/answers/:id/vote", s.handler.Answer.VoteAnswer)
			protected.POST("/answers/:id/accept", s.handler.Answer.AcceptAnswer)
			protected.PUT("/answers/:id", s.handler.Answer.UpdateAnswer)
			protected.DELETE("/answers/:id", s.handler.Answer.DeleteAnswer)

			// Notification routes
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.GET("/notifications/unread-count", s.handler.Notification.GetUnreadCount)
			protected.PUT("/notifications/read-all", s.handler.Notification.MarkAllRead)
			protected.PUT("/notifications/:id/read", s.handler.Notification.MarkRead)
			protected.DELETE("/notifications/:id", s.handler.Notification.DeleteNotification)

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminRequired())
			{
				admin.GET("/dashboard", s.handler.Admin.Dashboard)
				admin.GET("/statistics", s.handler.Admin.Statistics)
				admin.GET("/users", s.handler.Admin.GetUsers)
				admin.PUT("/users/:id/ban", s.handler.Admin.BanUser)
				admin.PUT("/users/:id/unban", s.handler.Admin.UnbanUser)
				admin.PUT("/users/:id/role", s.handler.Admin.ChangeRole)
				admin.GET("/content", s.handler.Admin.GetContent)
				admin.DELETE("/content/:type/:id", s.handler.Admin.DeleteContent)
				admin.POST("/announcements", s.handler.Admin.Announce)
				admin.GET("/reports", s.handler.Admin.GenerateReport)
				admin.GET("/reports/download/:filename", s.handler.Admin.DownloadReport)
			}
		}
	}

	return r
}
