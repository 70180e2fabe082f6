package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/service"
	"github.com/lumora-edu/lumora-api/internal/utils"
)

// GradeHandler manages grade inspection and the instructor lock toggle.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler builds a grade handler instance.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradeHandler) Register(router fiber.Router, professorOnly fiber.Handler) {
	router.Get("/:id", h.get)
	router.Patch("/:id/lock", professorOnly, h.setLocked)
}

func (h *GradeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grade, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade retrieved", grade)
}

func (h *GradeHandler) setLocked(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeLockRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grade, err := h.service.SetLocked(c.Context(), id, payload.Locked, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	message := "grade unlocked"
	if payload.Locked {
		message = "grade locked"
	}
	return utils.SendSuccess(c, message, grade)
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrGradeNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
