package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/handler"
	"github.com/lumora-edu/lumora-api/internal/service"
)

type mockGradeService struct {
	grade      dto.GradeResponse
	lastLocked *bool
	lastActor  service.Actor
	err        error
}

func (m *mockGradeService) Get(_ context.Context, _ uint) (dto.GradeResponse, error) {
	if m.err != nil {
		return dto.GradeResponse{}, m.err
	}
	return m.grade, nil
}

func (m *mockGradeService) SetLocked(_ context.Context, _ uint, locked bool, actor service.Actor) (dto.GradeResponse, error) {
	m.lastLocked = &locked
	m.lastActor = actor
	if m.err != nil {
		return dto.GradeResponse{}, m.err
	}
	m.grade.Locked = locked
	return m.grade, nil
}

func newGradeApp(svc *mockGradeService) *fiber.App {
	app := fiber.New()
	allowAll := func(c *fiber.Ctx) error { return c.Next() }
	handler.NewGradeHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/grades"), allowAll)
	return app
}

func TestGradeHandler_Get(t *testing.T) {
	svc := &mockGradeService{grade: dto.GradeResponse{ID: 21, EffectiveScore: 0.9, NumAttempts: 3}}
	app := newGradeApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/grades/21", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.GradeResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, uint(21), body.Data.ID)
	require.InDelta(t, 0.9, body.Data.EffectiveScore, 1e-9)
}

func TestGradeHandler_GetNotFound(t *testing.T) {
	svc := &mockGradeService{err: service.ErrGradeNotFound}
	app := newGradeApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/grades/99", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGradeHandler_Lock(t *testing.T) {
	svc := &mockGradeService{grade: dto.GradeResponse{ID: 21}}
	app := newGradeApp(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/grades/21/lock", bytes.NewReader([]byte(`{"locked":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.GradeResponse `json:"data"`
		Message string            `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, "grade locked", body.Message)
	require.True(t, body.Data.Locked)
	require.NotNil(t, svc.lastLocked)
	require.True(t, *svc.lastLocked)
}

func TestGradeHandler_InvalidID(t *testing.T) {
	svc := &mockGradeService{}
	app := newGradeApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/grades/oops", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
