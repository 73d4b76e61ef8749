// Package reports materializes admin aggregations as CSV artifacts.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stackit-qa/backend/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// Generator writes report files under a server-local directory. Repeated
// exports for the same window produce independent artifacts; filenames carry
// a random suffix so nothing is overwritten.
type Generator struct {
	db  *gorm.DB
	dir string
}

func NewGenerator(db *gorm.DB, dir string) *Generator {
	return &Generator{db: db, dir: dir}
}

// Dir returns the reports directory.
func (g *Generator) Dir() string { return g.dir }

func (g *Generator) filename(kind string) string {
	return fmt.Sprintf("%s-%s-%s.csv", kind, time.Now().Format("2006-01-02"), uuid.NewString()[:8])
}

func (g *Generator) write(kind string, rows any) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	name := g.filename(kind)
	f, err := os.Create(filepath.Join(g.dir, name))
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return "", fmt.Errorf("write %s report: %w", kind, err)
	}
	return name, nil
}

type userActivityRow struct {
	UserID     int    `csv:"User ID"`
	Username   string `csv:"Username"`
	Email      string `csv:"Email"`
	Role       string `csv:"Role"`
	Reputation int    `csv:"Reputation"`
	JoinDate   string `csv:"Join Date"`
	LastSeen   string `csv:"Last Seen"`
	IsBanned   bool   `csv:"Is Banned"`
	BanReason  string `csv:"Ban Reason"`
}

// UserActivity exports one row per user created within [start, end].
func (g *Generator) UserActivity(start, end time.Time) (string, error) {
	var users []models.User
	err := g.db.Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at").Find(&users).Error
	if err != nil {
		return "", err
	}

	rows := make([]userActivityRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userActivityRow{
			UserID:     u.ID,
			Username:   u.Username,
			Email:      u.Email,
			Role:       u.Role,
			Reputation: u.Reputation,
			JoinDate:   u.CreatedAt.Format("2006-01-02"),
			LastSeen:   u.LastSeen.Format(timeLayout),
			IsBanned:   u.IsBanned,
			BanReason:  u.BanReason,
		})
	}
	return g.write("user-activity", &rows)
}

type questionRow struct {
	QuestionID  int    `csv:"Question ID"`
	Title       string `csv:"Title"`
	Author      string `csv:"Author"`
	Tags        string `csv:"Tags"`
	Votes       int    `csv:"Votes"`
	Views       int    `csv:"Views"`
	AnswerCount int64  `csv:"Answer Count"`
	HasAccepted string `csv:"Has Accepted Answer"`
	CreatedAt   string `csv:"Created At"`
	Status      string `csv:"Status"`
}

type answerRow struct {
	AnswerID      int    `csv:"Answer ID"`
	QuestionTitle string `csv:"Question Title"`
	Author        string `csv:"Author"`
	Votes         int    `csv:"Votes"`
	IsAccepted    string `csv:"Is Accepted"`
	CreatedAt     string `csv:"Created At"`
	Status        string `csv:"Status"`
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (g *Generator) questionScore(id int) int {
	var score int
	g.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("question_id = ?", id).
		Scan(&score)
	return score
}

func (g *Generator) answerScore(id int) int {
	var score int
	g.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("answer_id = ?", id).
		Scan(&score)
	return score
}

// Content exports two artifacts for the window: one row per question and
// one row per answer.
func (g *Generator) Content(start, end time.Time) (questionsPath, answersPath string, err error) {
	var questions []models.Question
	err = g.db.Preload("User").Preload("Tags").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at").Find(&questions).Error
	if err != nil {
		return "", "", err
	}

	qRows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		var answerCount int64
		g.db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Count(&answerCount)

		tags := ""
		for i, t := range q.TagNames() {
			if i > 0 {
				tags += ", "
			}
			tags += t
		}

		qRows = append(qRows, questionRow{
			QuestionID:  q.ID,
			Title:       q.Title,
			Author:      q.User.Username,
			Tags:        tags,
			Votes:       g.questionScore(q.ID),
			Views:       q.ViewCount,
			AnswerCount: answerCount,
			HasAccepted: yesNo(q.AcceptedAnswerID != nil),
			CreatedAt:   q.CreatedAt.Format(timeLayout),
			Status:      q.Status,
		})
	}

	var answers []models.Answer
	err = g.db.Preload("User").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at").Find(&answers).Error
	if err != nil {
		return "", "", err
	}

	aRows := make([]answerRow, 0, len(answers))
	for _, a := range answers {
		var question models.Question
		g.db.Select("title").First(&question, a.QuestionID)

		aRows = append(aRows, answerRow{
			AnswerID:      a.ID,
			QuestionTitle: question.Title,
			Author:        a.User.Username,
			Votes:         g.answerScore(a.ID),
			IsAccepted:    yesNo(a.IsAccepted),
			CreatedAt:     a.CreatedAt.Format(timeLayout),
			Status:        a.Status,
		})
	}

	questionsPath, err = g.write("questions", &qRows)
	if err != nil {
		return "", "", err
	}
	answersPath, err = g.write("answers", &aRows)
	if err != nil {
		return "", "", err
	}
	return questionsPath, answersPath, nil
}

// TagCount is one top-tags aggregation bucket.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TopUser is one top-users aggregation bucket.
type TopUser struct {
	Username   string `json:"username"`
	Reputation int    `json:"reputation"`
}

// Analytics is the platform-wide summary payload.
type Analytics struct {
	TotalUsers         int64      `json:"totalUsers"`
	ActiveUsers        int64      `json:"activeUsers"`
	BannedUsers        int64      `json:"bannedUsers"`
	TotalQuestions     int64      `json:"totalQuestions"`
	TotalAnswers       int64      `json:"totalAnswers"`
	AcceptedAnswers    int64      `json:"acceptedAnswers"`
	TotalNotifications int64      `json:"totalNotifications"`
	TopTags            []TagCount `json:"topTags"`
	TopUsers           []TopUser  `json:"topUsers"`
	GeneratedAt        string     `json:"generatedAt"`
}

// TopTags aggregates the most used tags across questions.
func TopTags(db *gorm.DB, limit int) []TagCount {
	var tags []TagCount
	db.Model(&models.QuestionTag{}).
		Select("tag, COUNT(*) as count").
		Group("tag").
		Order("count DESC").
		Limit(limit).
		Scan(&tags)
	if tags == nil {
		tags = []TagCount{}
	}
	return tags
}

type metricRow struct {
	Metric string `csv:"Metric"`
	Value  string `csv:"Value"`
}

// AnalyticsReport computes the summary and writes it as metric/value rows.
func (g *Generator) AnalyticsReport() (*Analytics, string, error) {
	a := &Analytics{GeneratedAt: time.Now().Format(timeLayout)}

	g.db.Model(&models.User{}).Count(&a.TotalUsers)
	g.db.Model(&models.User{}).Where("is_banned = ?", true).Count(&a.BannedUsers)
	g.db.Model(&models.User{}).
		Where("last_seen >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&a.ActiveUsers)
	g.db.Model(&models.Question{}).Count(&a.TotalQuestions)
	g.db.Model(&models.Answer{}).Count(&a.TotalAnswers)
	g.db.Model(&models.Answer{}).Where("is_accepted = ?", true).Count(&a.AcceptedAnswers)
	g.db.Model(&models.Notification{}).Count(&a.TotalNotifications)

	a.TopTags = TopTags(g.db, 10)

	var topUsers []models.User
	g.db.Order("reputation DESC").Limit(10).Find(&topUsers)
	a.TopUsers = make([]TopUser, 0, len(topUsers))
	for _, u := range topUsers {
		a.TopUsers = append(a.TopUsers, TopUser{Username: u.Username, Reputation: u.Reputation})
	}

	rows := []metricRow{
		{"Total Users", fmt.Sprintf("%d", a.TotalUsers)},
		{"Active Users (7 days)", fmt.Sprintf("%d", a.ActiveUsers)},
		{"Banned Users", fmt.Sprintf("%d", a.BannedUsers)},
		{"Total Questions", fmt.Sprintf("%d", a.TotalQuestions)},
		{"Total Answers", fmt.Sprintf("%d", a.TotalAnswers)},
		{"Accepted Answers", fmt.Sprintf("%d", a.AcceptedAnswers)},
		{"Total Notifications", fmt.Sprintf("%d", a.TotalNotifications)},
		{"Generated At", a.GeneratedAt},
	}

	path, err := g.write("analytics", &rows)
	if err != nil {
		return nil, "", err
	}
	return a, path, nil
}
