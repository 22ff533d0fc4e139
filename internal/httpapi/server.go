// Package httpapi exposes the task engine over HTTP.
//
// This layer is deliberately thin: it parses transport input, calls
// the engine, and writes the envelope the engine shaped. All decision
// logic lives in the engine.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskmanager/internal/engine"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server is the HTTP API server.
type Server struct {
	engine *engine.Service
	app    *fiber.App
}

// New creates a Server around the given engine and registers all
// routes.
func New(svc *engine.Service) *Server {
	s := &Server{
		engine: svc,
		app: fiber.New(fiber.Config{
			AppName:               "taskmanager",
			DisableStartupMessage: true,
		}),
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New())

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.handleHealth)

	tasks := s.app.Group("/api/tasks")

	// /stats and /status must register before /:id so they are not
	// captured as identifiers.
	tasks.Get("/stats", s.handleStats)
	tasks.Get("/status/:status", s.handleListByStatus)

	tasks.Get("/", s.handleList)
	tasks.Post("/", s.handleCreate)
	tasks.Get("/:id", s.handleGet)
	tasks.Put("/:id", s.handleUpdate)
	tasks.Patch("/:id", s.handleUpdate)
	tasks.Delete("/:id", s.handleDelete)
}

// App returns the underlying fiber application, used by tests to issue
// in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, waiting for in-flight
// requests to finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Task API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
