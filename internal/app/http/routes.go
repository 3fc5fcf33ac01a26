package httpEngine

import (
	"net/http"
	"time"

	"schemahub-server/configs"
	"schemahub-server/internal/cache"
	"schemahub-server/internal/controllers"
	"schemahub-server/internal/logics"
	"schemahub-server/internal/middlewares"
	"schemahub-server/internal/repositories"
	"schemahub-server/internal/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RegisterRoutes wires the services and registers every route.
func RegisterRoutes(e *echo.Echo, log *zap.Logger) {
	// Health check, no auth.
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, from SchemaHub Server!")
	})

	var workspaceRepo repositories.WorkspaceRepository = repositories.NewMongoWorkspaceRepository()
	if configs.Configs.Redis.Enabled {
		ttl := time.Duration(configs.Configs.Redis.CacheTTLSeconds) * time.Second
		workspaceRepo = cache.NewCachedWorkspaceRepository(workspaceRepo, repositories.DBS.Redis, ttl, log)
	}

	directory := logics.NewUserDirectory(configs.Configs.Directory, log)

	var mailer logics.InviteMailer
	if configs.Configs.Email.Enabled {
		mailer = utils.NewEmailService(
			configs.Configs.Email.SmtpHost,
			configs.Configs.Email.SmtpPort,
			configs.Configs.Email.SmtpUsername,
			configs.Configs.Email.SmtpPassword,
			configs.Configs.Email.SenderEmail,
		)
	}

	workspaceService := logics.NewWorkspaceService(workspaceRepo, directory, mailer, log)
	workspaceController := controllers.NewWorkspaceController(workspaceService, log)

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middlewares.JWTMiddleware(configs.Configs.Auth.JwtSecret))

	apiV1.POST("/workspaces", workspaceController.CreateWorkspace)
	apiV1.GET("/workspaces/:id", workspaceController.GetWorkspace)
	apiV1.POST("/workspaces/:id/invite", workspaceController.InviteMember)
	apiV1.GET("/workspaces/:id/members", workspaceController.ListMembers)
	apiV1.PUT("/workspaces/:id/schemas", workspaceController.UpsertSchema)
	apiV1.DELETE("/workspaces/:id/members/:username", workspaceController.RemoveMember)
}
