package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumora-edu/lumora-api/internal/config"
	"github.com/lumora-edu/lumora-api/internal/handler"
	"github.com/lumora-edu/lumora-api/internal/middleware"
	"github.com/lumora-edu/lumora-api/internal/models"
	"github.com/lumora-edu/lumora-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	TopicHandler      *handler.TopicHandler
	QuestionHandler   *handler.QuestionHandler
	EnrollmentHandler *handler.EnrollmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradeHandler      *handler.GradeHandler
	GradebookHandler  *handler.GradebookHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	professorOnly := middleware.RequireRole(models.RoleProfessor, models.RoleAdmin)

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses", jwtMiddleware), professorOnly)
	}
	if deps.TopicHandler != nil {
		deps.TopicHandler.Register(api.Group("/topics", jwtMiddleware), professorOnly)
	}
	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware), professorOnly)
	}
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api.Group("/enrollments", jwtMiddleware), professorOnly)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(api.Group("/submissions", jwtMiddleware))
	}
	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(api.Group("/grades", jwtMiddleware), professorOnly)
	}
	if deps.GradebookHandler != nil {
		deps.GradebookHandler.Register(api.Group("/gradebook", jwtMiddleware, professorOnly))
	}
}
