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

// TopicHandler manages topic endpoints, including manual regrade runs.
type TopicHandler struct {
	service  service.TopicService
	regrades service.RegradeService
	logger   zerolog.Logger
}

// NewTopicHandler builds a topic handler instance.
func NewTopicHandler(service service.TopicService, regrades service.RegradeService, logger zerolog.Logger) *TopicHandler {
	return &TopicHandler{
		service:  service,
		regrades: regrades,
		logger:   logger.With().Str("component", "topic_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TopicHandler) Register(router fiber.Router, professorOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", professorOnly, h.create)
	router.Put("/:id", professorOnly, h.update)
	router.Post("/:id/regrade", professorOnly, h.regrade)
}

func (h *TopicHandler) list(c *fiber.Ctx) error {
	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if courseID == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing course_id")
	}

	topics, err := h.service.ListByCourse(c.Context(), *courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topics retrieved", topics)
}

func (h *TopicHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	topic, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topic retrieved", topic)
}

func (h *TopicHandler) create(c *fiber.Ctx) error {
	var payload dto.TopicCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	topic, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "topic created", topic)
}

func (h *TopicHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TopicUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	topic, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topic updated", topic)
}

func (h *TopicHandler) regrade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.regrades.RegradeTopic(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "topic regraded", result)
}

func (h *TopicHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTopicNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "topic not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrTopicWindowInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
