package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/database"
	"github.com/stackit-qa/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens a private in-memory database per test. The shared-cache
// DSN keeps every pooled connection on the same store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestQuestion(t *testing.T, db *gorm.DB, author models.User) models.Question {
	t.Helper()

	question := models.Question{
		Title:       "How do goroutines get scheduled?",
		Description: "I would like to understand the runtime scheduler in detail.",
		AuthorID:    author.ID,
		Status:      models.StatusActive,
		Tags:        []models.QuestionTag{{Tag: "go"}, {Tag: "concurrency"}},
	}
	require.NoError(t, db.Create(&question).Error)
	return question
}

func createTestAnswer(t *testing.T, db *gorm.DB, author models.User, question models.Question) models.Answer {
	t.Helper()

	answer := models.Answer{
		Content:    "The runtime multiplexes goroutines onto OS threads.",
		AuthorID:   author.ID,
		QuestionID: question.ID,
		Status:     models.StatusActive,
	}
	require.NoError(t, db.Create(&answer).Error)
	return answer
}

// testContext builds a gin context with an authenticated caller, a JSON
// body and optional route params.
func testContext(t *testing.T, userID int, body string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c, w
}
