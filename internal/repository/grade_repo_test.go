package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumora-edu/lumora-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Topic{},
		&models.Question{},
		&models.Grade{},
		&models.Workbook{},
		&models.AuditEntry{},
	))
	return db
}

func TestGradeRepositoryGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)

	created, err := repo.GetOrCreate(context.Background(), 5, 11)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Zero(t, created.NumAttempts)

	again, err := repo.GetOrCreate(context.Background(), 5, 11)
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)
}

func TestGradeRepositoryUpdateColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)

	grade, err := repo.GetOrCreate(context.Background(), 5, 11)
	require.NoError(t, err)

	err = repo.UpdateColumns(context.Background(), grade.ID, map[string]interface{}{
		"effective_score": 0.8,
		"legal_score":     0.8,
		"num_attempts":    1,
	})
	require.NoError(t, err)

	reloaded, err := repo.GetByID(context.Background(), grade.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.8, reloaded.EffectiveScore, 1e-9)
	require.InDelta(t, 0.8, reloaded.LegalScore, 1e-9)
	require.Equal(t, 1, reloaded.NumAttempts)
	require.Zero(t, reloaded.BestScore, "untouched columns must keep their value")

	require.NoError(t, repo.UpdateColumns(context.Background(), grade.ID, nil), "empty column set is a no-op")
}

func TestGradeRepositoryListByTopic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)

	topic := models.Topic{CourseID: 3, Name: "Derivatives", StartDate: time.Now(), EndDate: time.Now(), DeadDate: time.Now()}
	require.NoError(t, db.Create(&topic).Error)
	other := models.Topic{CourseID: 3, Name: "Integrals", StartDate: time.Now(), EndDate: time.Now(), DeadDate: time.Now()}
	require.NoError(t, db.Create(&other).Error)

	inTopic := models.Question{TopicID: topic.ID, ProblemNumber: 1, Weight: 1, MaxAttempts: -1}
	require.NoError(t, db.Create(&inTopic).Error)
	outside := models.Question{TopicID: other.ID, ProblemNumber: 1, Weight: 1, MaxAttempts: -1}
	require.NoError(t, db.Create(&outside).Error)

	require.NoError(t, db.Create(&models.Grade{UserID: 5, QuestionID: inTopic.ID}).Error)
	require.NoError(t, db.Create(&models.Grade{UserID: 6, QuestionID: inTopic.ID}).Error)
	require.NoError(t, db.Create(&models.Grade{UserID: 5, QuestionID: outside.ID}).Error)

	grades, err := repo.ListByTopic(context.Background(), topic.ID)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	for _, grade := range grades {
		require.Equal(t, inTopic.ID, grade.QuestionID)
	}
}

func TestGradeRepositorySummarizeCourse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradeRepository(db)

	alice := models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleStudent}
	bob := models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleStudent}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	topic := models.Topic{CourseID: 3, Name: "Limits", StartDate: time.Now(), EndDate: time.Now(), DeadDate: time.Now()}
	require.NoError(t, db.Create(&topic).Error)

	q1 := models.Question{TopicID: topic.ID, ProblemNumber: 1, Weight: 1, MaxAttempts: -1}
	q2 := models.Question{TopicID: topic.ID, ProblemNumber: 2, Weight: 2, MaxAttempts: -1}
	require.NoError(t, db.Create(&q1).Error)
	require.NoError(t, db.Create(&q2).Error)

	require.NoError(t, db.Create(&models.Grade{UserID: alice.ID, QuestionID: q1.ID, EffectiveScore: 1, NumAttempts: 2}).Error)
	require.NoError(t, db.Create(&models.Grade{UserID: alice.ID, QuestionID: q2.ID, EffectiveScore: 0.5, NumAttempts: 1}).Error)
	require.NoError(t, db.Create(&models.Grade{UserID: bob.ID, QuestionID: q1.ID, EffectiveScore: 0.25, NumAttempts: 4}).Error)

	rows, err := repo.SummarizeCourse(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Alice", rows[0].UserName)
	require.InDelta(t, 1.5, rows[0].EffectiveTotal, 1e-9)
	require.InDelta(t, 2.0, rows[0].WeightedTotal, 1e-9)
	require.Equal(t, 2, rows[0].QuestionCount)
	require.Equal(t, 3, rows[0].AttemptCount)

	require.Equal(t, "Bob", rows[1].UserName)
	require.InDelta(t, 0.25, rows[1].EffectiveTotal, 1e-9)
}
