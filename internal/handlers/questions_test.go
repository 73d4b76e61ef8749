package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit-qa/backend/internal/models"
	"github.com/stackit-qa/backend/internal/notify"
	"github.com/stackit-qa/backend/internal/realtime"
)

func TestCreateQuestionValidation(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	tests := []struct {
		name string
		body string
	}{
		{"short title", `{"title":"short","description":"a long enough description here","tags":["go"]}`},
		{"short description", `{"title":"a perfectly fine title","description":"tiny","tags":["go"]}`},
		{"no tags", `{"title":"a perfectly fine title","description":"a long enough description here","tags":[]}`},
		{"too many tags", `{"title":"a perfectly fine title","description":"a long enough description here","tags":["a","b","c","d","e","f"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(t, author.ID, tt.body, nil)
			h.CreateQuestion(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	var count int64
	db.Model(&models.Question{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateQuestionNormalizesTags(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	body := `{"title":"How should tags behave here?","description":"Checking tag normalization end to end.","tags":["Go","  GO ","Concurrency"]}`
	c, w := testContext(t, author.ID, body, nil)
	h.CreateQuestion(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var tags []models.QuestionTag
	db.Find(&tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0].Tag)
	assert.Equal(t, "concurrency", tags[1].Tag)
}

func TestCreateQuestionMentions(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")
	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	body := `{"title":"Question for specific people","description":"Hey @alice and @bob, what do you think about this?","tags":["go"]}`
	c, w := testContext(t, author.ID, body, nil)
	h.CreateQuestion(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var notifications []models.Notification
	db.Where("type = ?", models.NotificationTypeMention).Find(&notifications)
	require.Len(t, notifications, 2)

	recipients := map[int]bool{}
	for _, n := range notifications {
		recipients[n.RecipientID] = true
	}
	assert.True(t, recipients[alice.ID])
	assert.False(t, recipients[author.ID])
}

func TestGetQuestionIncrementsViewCount(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	question := createTestQuestion(t, db, author)
	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	for i := 0; i < 3; i++ {
		c, w := testContext(t, 0, "", gin.Params{{Key: "id", Value: strconv.Itoa(question.ID)}})
		c.Request.Method = http.MethodGet
		h.GetQuestion(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var reloaded models.Question
	db.First(&reloaded, question.ID)
	assert.Equal(t, 3, reloaded.ViewCount)
}

func TestGetQuestionDeletedIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	question := createTestQuestion(t, db, author)
	require.NoError(t, db.Model(&question).Update("status", models.StatusDeleted).Error)

	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	c, w := testContext(t, 0, "", gin.Params{{Key: "id", Value: strconv.Itoa(question.ID)}})
	h.GetQuestion(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Soft delete: the row is still there.
	var count int64
	db.Model(&models.Question{}).Where("id = ?", question.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteQuestionRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	intruder := createTestUser(t, db, "intruder")
	question := createTestQuestion(t, db, author)

	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	c, w := testContext(t, intruder.ID, "{}", gin.Params{{Key: "id", Value: strconv.Itoa(question.ID)}})
	h.DeleteQuestion(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Question
	db.First(&reloaded, question.ID)
	assert.Equal(t, models.StatusActive, reloaded.Status)
}

func TestVoteQuestionEndpoint(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "author")
	voter := createTestUser(t, db, "voter")
	question := createTestQuestion(t, db, author)

	h := NewQuestionHandler(db, notify.NewDispatcher(db, realtime.NewHub()))
	params := gin.Params{{Key: "id", Value: strconv.Itoa(question.ID)}}

	c, w := testContext(t, voter.ID, `{"vote_type":"upvote"}`, params)
	h.VoteQuestion(c)
	require.Equal(t, http.StatusOK, w.Code)

	// Votes never notify anyone.
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)

	c, w = testContext(t, voter.ID, `{"vote_type":"sideways"}`, params)
	h.VoteQuestion(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
