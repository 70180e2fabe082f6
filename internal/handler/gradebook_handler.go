package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumora-edu/lumora-api/internal/service"
	"github.com/lumora-edu/lumora-api/internal/utils"
)

// GradebookHandler serves the cached per-course gradebook summary.
type GradebookHandler struct {
	service service.GradebookService
	logger  zerolog.Logger
}

// NewGradebookHandler builds a gradebook handler instance.
func NewGradebookHandler(service service.GradebookService, logger zerolog.Logger) *GradebookHandler {
	return &GradebookHandler{
		service: service,
		logger:  logger.With().Str("component", "gradebook_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradebookHandler) Register(router fiber.Router) {
	router.Get("/courses/:courseID", h.getCourseGradebook)
}

func (h *GradebookHandler) getCourseGradebook(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	gradebook, err := h.service.GetCourseGradebook(c.Context(), courseID)
	if err != nil {
		h.logger.Error().Err(err).Uint("course_id", courseID).Msg("gradebook lookup failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "gradebook retrieved", gradebook)
}
