package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/repository"
)

type fakeRegradeService struct {
	calls []uint
}

func (f *fakeRegradeService) RegradeTopic(ctx context.Context, topicID uint, actor Actor) (dto.RegradeResponse, error) {
	f.calls = append(f.calls, topicID)
	return dto.RegradeResponse{TopicID: topicID, GradesVisited: 1}, nil
}

type stubCourseRepo struct{}

func (stubCourseRepo) List(ctx context.Context, filter repository.CourseFilter) ([]models.Course, error) {
	return nil, nil
}

func (stubCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	return models.Course{ID: id}, nil
}

func (stubCourseRepo) Create(ctx context.Context, course *models.Course) error { return nil }

func (stubCourseRepo) Update(ctx context.Context, course *models.Course) error { return nil }

func TestTopicUpdateDateEditTriggersRegrade(t *testing.T) {
	topics := &fakeTopicRepo{topic: testTopic()}
	regrades := &fakeRegradeService{}
	auditRepo := &fakeAuditRepo{}

	svc := NewTopicService(
		topics,
		stubCourseRepo{},
		regrades,
		NewAuditService(auditRepo, testLogger()),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)

	newEnd := testEpoch.Add(6 * time.Hour).Format(time.RFC3339)
	_, err := svc.Update(context.Background(), 7, dto.TopicUpdateRequest{EndDate: &newEnd}, Actor{ID: 1, Role: "professor"})
	require.NoError(t, err)

	require.Equal(t, []uint{7}, regrades.calls)
	require.Len(t, auditRepo.entries, 1)
	require.Equal(t, models.AuditActionDatesChanged, auditRepo.entries[0].Action)
}

func TestTopicUpdateNameOnlySkipsRegrade(t *testing.T) {
	topics := &fakeTopicRepo{topic: testTopic()}
	regrades := &fakeRegradeService{}

	svc := NewTopicService(
		topics,
		stubCourseRepo{},
		regrades,
		NewAuditService(&fakeAuditRepo{}, testLogger()),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)

	name := "Week 1 (revised)"
	resp, err := svc.Update(context.Background(), 7, dto.TopicUpdateRequest{Name: &name}, Actor{ID: 1, Role: "professor"})
	require.NoError(t, err)
	require.Equal(t, name, resp.Name)
	require.Empty(t, regrades.calls)
}

func TestTopicUpdateRejectsUnorderedWindow(t *testing.T) {
	topics := &fakeTopicRepo{topic: testTopic()}

	svc := NewTopicService(
		topics,
		stubCourseRepo{},
		&fakeRegradeService{},
		NewAuditService(&fakeAuditRepo{}, testLogger()),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)

	// End date pushed past the dead date.
	badEnd := testEpoch.Add(100 * time.Hour).Format(time.RFC3339)
	_, err := svc.Update(context.Background(), 7, dto.TopicUpdateRequest{EndDate: &badEnd}, Actor{ID: 1, Role: "professor"})
	require.ErrorIs(t, err, ErrTopicWindowInvalid)
}
