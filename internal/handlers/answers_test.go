package handlers

import (
	"fmt"
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

func TestCreateAnswerNotifiesQuestionAuthor(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	question := createTestQuestion(t, db, asker)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	body := fmt.Sprintf(`{"content":"You should use channels for this.","question_id":%d}`, question.ID)
	c, w := testContext(t, responder.ID, body, nil)
	h.CreateAnswer(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var notifications []models.Notification
	require.NoError(t, db.Where("recipient_id = ?", asker.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeAnswer, notifications[0].Type)
	assert.Equal(t, responder.ID, *notifications[0].SenderID)
	assert.False(t, notifications[0].IsRead)
}

func TestCreateAnswerOwnQuestionNoSelfNotification(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	question := createTestQuestion(t, db, asker)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	body := fmt.Sprintf(`{"content":"Answering my own question here.","question_id":%d}`, question.ID)
	c, w := testContext(t, asker.ID, body, nil)
	h.CreateAnswer(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Notification{}).Where("recipient_id = ?", asker.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCreateAnswerMentionFanOut(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	alice := createTestUser(t, db, "alice")
	question := createTestQuestion(t, db, asker)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	// @alice mentioned twice, @carol does not exist.
	body := fmt.Sprintf(`{"content":"Hey @alice and @carol, also @alice again.","question_id":%d}`, question.ID)
	c, w := testContext(t, responder.ID, body, nil)
	h.CreateAnswer(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var mentionNotifications []models.Notification
	db.Where("type = ?", models.NotificationTypeMention).Find(&mentionNotifications)
	require.Len(t, mentionNotifications, 1)
	assert.Equal(t, alice.ID, mentionNotifications[0].RecipientID)
}

func TestCreateAnswerValidation(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	question := createTestQuestion(t, db, asker)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	body := fmt.Sprintf(`{"content":"too short","question_id":%d}`, question.ID)
	c, w := testContext(t, asker.ID, body, nil)
	h.CreateAnswer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected before any mutation.
	var count int64
	db.Model(&models.Answer{}).Count(&count)
	assert.Zero(t, count)
}

func acceptAnswer(t *testing.T, h *AnswerHandler, callerID, answerID int) *gin.Context {
	t.Helper()
	c, _ := testContext(t, callerID, "{}", gin.Params{{Key: "id", Value: strconv.Itoa(answerID)}})
	h.AcceptAnswer(c)
	return c
}

func TestAcceptAnswerSingleAcceptedInvariant(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	question := createTestQuestion(t, db, asker)
	first := createTestAnswer(t, db, responder, question)
	second := createTestAnswer(t, db, responder, question)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	acceptAnswer(t, h, asker.ID, first.ID)
	acceptAnswer(t, h, asker.ID, second.ID)

	var accepted []models.Answer
	db.Where("question_id = ? AND is_accepted = ?", question.ID, true).Find(&accepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, second.ID, accepted[0].ID)

	var reloaded models.Question
	require.NoError(t, db.First(&reloaded, question.ID).Error)
	require.NotNil(t, reloaded.AcceptedAnswerID)
	assert.Equal(t, second.ID, *reloaded.AcceptedAnswerID)
}

func TestAcceptAnswerOnlyQuestionAuthor(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	intruder := createTestUser(t, db, "intruder")
	question := createTestQuestion(t, db, asker)
	answer := createTestAnswer(t, db, responder, question)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	c, w := testContext(t, intruder.ID, "{}", gin.Params{{Key: "id", Value: strconv.Itoa(answer.ID)}})
	h.AcceptAnswer(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Answer
	db.First(&reloaded, answer.ID)
	assert.False(t, reloaded.IsAccepted)
}

func TestAcceptAnswerNotifiesAuthor(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	question := createTestQuestion(t, db, asker)
	answer := createTestAnswer(t, db, responder, question)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))
	acceptAnswer(t, h, asker.ID, answer.ID)

	var notifications []models.Notification
	db.Where("recipient_id = ? AND type = ?", responder.ID, models.NotificationTypeAccept).Find(&notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Your answer was accepted", notifications[0].Title)
}

func TestDeleteAnswerIsSoft(t *testing.T) {
	db := setupTestDB(t)
	asker := createTestUser(t, db, "asker")
	responder := createTestUser(t, db, "responder")
	question := createTestQuestion(t, db, asker)
	answer := createTestAnswer(t, db, responder, question)

	h := NewAnswerHandler(db, notify.NewDispatcher(db, realtime.NewHub()))

	c, w := testContext(t, responder.ID, "{}", gin.Params{{Key: "id", Value: strconv.Itoa(answer.ID)}})
	h.DeleteAnswer(c)
	require.Equal(t, http.StatusOK, w.Code)

	// Row survives with status deleted.
	var reloaded models.Answer
	require.NoError(t, db.First(&reloaded, answer.ID).Error)
	assert.Equal(t, models.StatusDeleted, reloaded.Status)
}
