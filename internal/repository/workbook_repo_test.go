package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lumora-edu/lumora-api/internal/models"
)

func TestWorkbookRepositoryListByGradeOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkbookRepository(db)

	base := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	later := models.Workbook{
		ExternalID:   uuid.NewString(),
		GradeID:      21,
		UserID:       5,
		QuestionID:   11,
		Score:        0.9,
		SubmittedAt:  base.Add(time.Hour),
		TrackReason:  "YES",
		CreditReason: "YES",
	}
	earlier := models.Workbook{
		ExternalID:   uuid.NewString(),
		GradeID:      21,
		UserID:       5,
		QuestionID:   11,
		Score:        0.4,
		SubmittedAt:  base,
		TrackReason:  "YES",
		CreditReason: "YES",
	}
	unrelated := models.Workbook{
		ExternalID:   uuid.NewString(),
		GradeID:      22,
		UserID:       6,
		QuestionID:   11,
		Score:        0.7,
		SubmittedAt:  base,
		TrackReason:  "YES",
		CreditReason: "YES",
	}

	require.NoError(t, repo.Create(context.Background(), &later))
	require.NoError(t, repo.Create(context.Background(), &earlier))
	require.NoError(t, repo.Create(context.Background(), &unrelated))

	workbooks, err := repo.ListByGrade(context.Background(), 21)
	require.NoError(t, err)
	require.Len(t, workbooks, 2)
	require.Equal(t, earlier.ID, workbooks[0].ID, "expected oldest attempt first")
	require.Equal(t, later.ID, workbooks[1].ID)
}

func TestWorkbookRepositoryTiesBreakOnID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkbookRepository(db)

	at := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	first := models.Workbook{ExternalID: uuid.NewString(), GradeID: 21, UserID: 5, QuestionID: 11, Score: 0.4, SubmittedAt: at, TrackReason: "YES", CreditReason: "YES"}
	second := models.Workbook{ExternalID: uuid.NewString(), GradeID: 21, UserID: 5, QuestionID: 11, Score: 0.8, SubmittedAt: at, TrackReason: "YES", CreditReason: "YES"}

	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))

	workbooks, err := repo.ListByUserAndQuestion(context.Background(), 5, 11)
	require.NoError(t, err)
	require.Len(t, workbooks, 2)
	require.Equal(t, first.ID, workbooks[0].ID, "same timestamp resolves by insertion order")
}

func TestWorkbookRepositoryExternalIDUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWorkbookRepository(db)

	externalID := uuid.NewString()
	at := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	original := models.Workbook{ExternalID: externalID, GradeID: 21, UserID: 5, QuestionID: 11, Score: 0.4, SubmittedAt: at, TrackReason: "YES", CreditReason: "YES"}
	duplicate := models.Workbook{ExternalID: externalID, GradeID: 21, UserID: 5, QuestionID: 11, Score: 0.8, SubmittedAt: at, TrackReason: "YES", CreditReason: "YES"}

	require.NoError(t, repo.Create(context.Background(), &original))
	require.Error(t, repo.Create(context.Background(), &duplicate))
}
