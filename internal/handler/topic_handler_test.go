package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/handler"
	"github.com/lumora-edu/lumora-api/internal/service"
)

type mockTopicService struct {
	topic dto.TopicResponse
	err   error
}

func (m *mockTopicService) ListByCourse(_ context.Context, _ uint) ([]dto.TopicResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.TopicResponse{m.topic}, nil
}

func (m *mockTopicService) Get(_ context.Context, _ uint) (dto.TopicResponse, error) {
	if m.err != nil {
		return dto.TopicResponse{}, m.err
	}
	return m.topic, nil
}

func (m *mockTopicService) Create(_ context.Context, _ dto.TopicCreateRequest) (dto.TopicResponse, error) {
	if m.err != nil {
		return dto.TopicResponse{}, m.err
	}
	return m.topic, nil
}

func (m *mockTopicService) Update(_ context.Context, _ uint, _ dto.TopicUpdateRequest, _ service.Actor) (dto.TopicResponse, error) {
	if m.err != nil {
		return dto.TopicResponse{}, m.err
	}
	return m.topic, nil
}

type mockRegradeService struct {
	lastTopicID uint
	lastActor   service.Actor
	response    dto.RegradeResponse
	err         error
}

func (m *mockRegradeService) RegradeTopic(_ context.Context, topicID uint, actor service.Actor) (dto.RegradeResponse, error) {
	m.lastTopicID = topicID
	m.lastActor = actor
	if m.err != nil {
		return dto.RegradeResponse{}, m.err
	}
	return m.response, nil
}

func newTopicApp(topics *mockTopicService, regrades *mockRegradeService) *fiber.App {
	app := fiber.New()
	allowAll := func(c *fiber.Ctx) error { return c.Next() }
	handler.NewTopicHandler(topics, regrades, zerolog.Nop()).Register(app.Group("/api/v1/topics"), allowAll)
	return app
}

func TestTopicHandler_ListRequiresCourse(t *testing.T) {
	app := newTopicApp(&mockTopicService{}, &mockRegradeService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/topics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTopicHandler_Regrade(t *testing.T) {
	regrades := &mockRegradeService{response: dto.RegradeResponse{
		TopicID:       7,
		GradesVisited: 12,
		GradesChanged: 3,
		WorkbooksSeen: 40,
		FinishedAt:    time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC),
	}}
	app := newTopicApp(&mockTopicService{}, regrades)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/topics/7/regrade", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                `json:"success"`
		Data    dto.RegradeResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, uint(7), regrades.lastTopicID)
	require.Equal(t, 3, body.Data.GradesChanged)
}

func TestTopicHandler_RegradeTopicNotFound(t *testing.T) {
	regrades := &mockRegradeService{err: service.ErrTopicNotFound}
	app := newTopicApp(&mockTopicService{}, regrades)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/topics/99/regrade", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
