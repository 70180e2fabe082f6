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

// SubmissionHandler manages graded-submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/workbooks", h.listWorkbooks)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.UserID == 0 {
		payload.UserID = userIDFromContext(c)
	}

	result, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission graded", result)
}

func (h *SubmissionHandler) listWorkbooks(c *fiber.Ctx) error {
	questionID, err := parseQueryUint(c, "question_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if questionID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing question_id")
	}

	userID, err := parseQueryUint(c, "user_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	resolvedUserID := userIDFromContext(c)
	if userID != nil {
		resolvedUserID = *userID
	}
	if resolvedUserID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "missing user_id")
	}

	workbooks, err := h.service.ListWorkbooks(c.Context(), resolvedUserID, *questionID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "workbooks retrieved", workbooks)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrTopicNotOpen):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
