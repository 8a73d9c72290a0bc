package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/facestream-labs/facestream/internal/api/docs"
	"github.com/facestream-labs/facestream/internal/api/handler"
	"github.com/facestream-labs/facestream/internal/api/middleware"
	"github.com/facestream-labs/facestream/internal/pipeline"
	"github.com/facestream-labs/facestream/internal/repository"
	"github.com/facestream-labs/facestream/internal/service"
	"github.com/facestream-labs/facestream/internal/ws"
)

// Dependencies agrupa tudo que o router precisa para montar as rotas.
type Dependencies struct {
	Enrollment *service.EnrollmentService
	LogRepo    repository.RecognitionLogRepositoryInterface
	Pipeline   *pipeline.Pipeline
	SessionCfg pipeline.SessionConfig
	Hub        *ws.Hub
	ReadyCheck func(ctx context.Context) error
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "FaceStream API",
		// Frames chegam pelo WebSocket; o body HTTP só carrega fotos de cadastro.
		BodyLimit: 12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.ReadyCheck)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/api/v1")

	identityHandler := handler.NewIdentityHandler(r.deps.Enrollment, r.logger)
	v1.Post("/identities", identityHandler.Create)
	v1.Get("/identities", identityHandler.List)
	v1.Get("/identities/:id", identityHandler.Get)
	v1.Put("/identities/:id", identityHandler.Update)
	v1.Delete("/identities/:id", identityHandler.Delete)
	v1.Post("/identities/:id/faces", identityHandler.AddFace)
	v1.Get("/identities/:id/faces", identityHandler.ListFaces)
	v1.Delete("/identities/:id/faces/:face_id", identityHandler.DeleteFace)

	logsHandler := handler.NewLogsHandler(r.deps.LogRepo, r.deps.Hub, r.logger)
	v1.Get("/logs", logsHandler.List)
	v1.Get("/logs/stats", logsHandler.Stats)
	v1.Get("/sessions", logsHandler.Sessions)

	// Streaming de reconhecimento.
	r.app.Get("/ws/recognize",
		ws.UpgradeMiddleware(),
		ws.Handler(r.deps.Pipeline, r.deps.SessionCfg, r.deps.Hub, r.logger),
	)
}

// Listen starts the HTTP server.
func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

// App expõe o *fiber.App para testes.
func (r *Router) App() *fiber.App {
	return r.app
}
