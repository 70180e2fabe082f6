package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

var testEpoch = time.Date(2026, time.April, 6, 9, 0, 0, 0, time.UTC)

// testTopic is an open topic: end in 1d, dead in 2d, solutions in 3d.
func testTopic() models.Topic {
	solution := testEpoch.Add(72 * time.Hour)
	return models.Topic{
		ID:           7,
		CourseID:     3,
		Name:         "Week 1",
		StartDate:    testEpoch.Add(-24 * time.Hour),
		EndDate:      testEpoch.Add(24 * time.Hour),
		DeadDate:     testEpoch.Add(48 * time.Hour),
		SolutionDate: &solution,
	}
}

func testQuestion(topic models.Topic) models.Question {
	return models.Question{
		ID:            11,
		TopicID:       topic.ID,
		ProblemNumber: 1,
		Weight:        1,
		MaxAttempts:   3,
		Topic:         topic,
	}
}

type fakeQuestionRepo struct {
	question models.Question
	err      error
}

func (f *fakeQuestionRepo) ListByTopic(ctx context.Context, topicID uint) ([]models.Question, error) {
	return []models.Question{f.question}, f.err
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id uint) (models.Question, error) {
	return f.question, f.err
}

func (f *fakeQuestionRepo) GetWithTopic(ctx context.Context, id uint) (models.Question, error) {
	return f.question, f.err
}

func (f *fakeQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	return f.err
}

func (f *fakeQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	return f.err
}

type fakeEnrollmentRepo struct {
	enrollment models.Enrollment
	err        error
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	return []models.Enrollment{f.enrollment}, f.err
}

func (f *fakeEnrollmentRepo) GetByCourseAndUser(ctx context.Context, courseID, userID uint) (models.Enrollment, error) {
	return f.enrollment, f.err
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return f.err
}

func (f *fakeEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return f.err
}

// fakeGradeRepo holds a single grade and applies UpdateColumns in memory.
type fakeGradeRepo struct {
	grade       models.Grade
	updates     []map[string]interface{}
	lockCalls   int
	summaries   []repository.CourseGradeSummary
	summaryHits int
}

func (f *fakeGradeRepo) GetByID(ctx context.Context, id uint) (models.Grade, error) {
	return f.grade, nil
}

func (f *fakeGradeRepo) GetOrCreate(ctx context.Context, userID, questionID uint) (models.Grade, error) {
	return f.grade, nil
}

func (f *fakeGradeRepo) GetForUpdate(ctx context.Context, userID, questionID uint) (models.Grade, error) {
	f.lockCalls++
	return f.grade, nil
}

func (f *fakeGradeRepo) ListByQuestion(ctx context.Context, questionID uint) ([]models.Grade, error) {
	return []models.Grade{f.grade}, nil
}

func (f *fakeGradeRepo) ListByTopic(ctx context.Context, topicID uint) ([]models.Grade, error) {
	return []models.Grade{f.grade}, nil
}

func (f *fakeGradeRepo) UpdateColumns(ctx context.Context, id uint, columns map[string]interface{}) error {
	f.updates = append(f.updates, columns)
	for column, value := range columns {
		switch column {
		case "best_score":
			f.grade.BestScore = value.(float64)
		case "overall_best_score":
			f.grade.OverallBestScore = value.(float64)
		case "legal_score":
			f.grade.LegalScore = value.(float64)
		case "partial_credit_best_score":
			f.grade.PartialCreditBestScore = value.(float64)
		case "effective_score":
			f.grade.EffectiveScore = value.(float64)
		case "num_attempts":
			f.grade.NumAttempts = value.(int)
		case "locked":
			f.grade.Locked = value.(bool)
		}
	}
	return nil
}

func (f *fakeGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	f.grade = *grade
	return nil
}

func (f *fakeGradeRepo) SummarizeCourse(ctx context.Context, courseID uint) ([]repository.CourseGradeSummary, error) {
	f.summaryHits++
	return f.summaries, nil
}

type fakeWorkbookRepo struct {
	rows []models.Workbook
}

func (f *fakeWorkbookRepo) Create(ctx context.Context, workbook *models.Workbook) error {
	workbook.ID = uint(len(f.rows) + 1)
	f.rows = append(f.rows, *workbook)
	return nil
}

func (f *fakeWorkbookRepo) ListByGrade(ctx context.Context, gradeID uint) ([]models.Workbook, error) {
	return f.rows, nil
}

func (f *fakeWorkbookRepo) ListByUserAndQuestion(ctx context.Context, userID, questionID uint) ([]models.Workbook, error) {
	return f.rows, nil
}

type fakeAuditRepo struct {
	entries []models.AuditEntry
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return f.entries, nil
}

// fakeUnitOfWork hands the same fakes to the callback without a real
// transaction; serialization is not under test here.
type fakeUnitOfWork struct {
	grades    repository.GradeRepository
	workbooks repository.WorkbookRepository
	audit     repository.AuditRepository
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(stores repository.GradingStores) error) error {
	return fn(repository.GradingStores{
		Grades:    f.grades,
		Workbooks: f.workbooks,
		Audit:     f.audit,
	})
}

type fakePublisher struct {
	gradeEvents   []GradeEvent
	regradeEvents []RegradeEvent
}

func (f *fakePublisher) PublishGradeUpdated(event GradeEvent) {
	f.gradeEvents = append(f.gradeEvents, event)
}

func (f *fakePublisher) PublishRegradeFinished(event RegradeEvent) {
	f.regradeEvents = append(f.regradeEvents, event)
}

type fakeGradebook struct {
	invalidated []uint
}

func (f *fakeGradebook) Invalidate(ctx context.Context, courseID uint) {
	f.invalidated = append(f.invalidated, courseID)
}

type fakeTopicRepo struct {
	topic models.Topic
	err   error
}

func (f *fakeTopicRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Topic, error) {
	return []models.Topic{f.topic}, f.err
}

func (f *fakeTopicRepo) GetByID(ctx context.Context, id uint) (models.Topic, error) {
	return f.topic, f.err
}

func (f *fakeTopicRepo) Create(ctx context.Context, topic *models.Topic) error {
	f.topic = *topic
	return f.err
}

func (f *fakeTopicRepo) Update(ctx context.Context, topic *models.Topic) error {
	f.topic = *topic
	return f.err
}
