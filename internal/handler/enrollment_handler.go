package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumora-edu/lumora-api/internal/dto"
	"github.com/lumora-edu/lumora-api/internal/service"
	"github.com/lumora-edu/lumora-api/internal/utils"
)

// EnrollmentHandler manages enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler builds an enrollment handler instance.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router, professorOnly fiber.Handler) {
	router.Get("", h.list)
	router.Post("", professorOnly, h.enroll)
	router.Delete("/courses/:courseID/users/:userID", professorOnly, h.drop)
}

func (h *EnrollmentHandler) list(c *fiber.Ctx) error {
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if courseID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing course_id")
	}

	enrollments, err := h.service.ListByCourse(c.Context(), *courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.Enroll(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student enrolled", enrollment)
}

func (h *EnrollmentHandler) drop(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	enrollment, err := h.service.Drop(c.Context(), courseID, userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student dropped", enrollment)
}

func (h *EnrollmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "enrollment not found")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
