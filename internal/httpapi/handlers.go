package httpapi

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"taskmanager/internal/engine"
	"taskmanager/internal/task"
)

// fail converts an engine error into the failure envelope and its
// HTTP status. storageMsg is the operation-specific message used when
// the record store itself failed; those are also logged server-side,
// never silently swallowed.
func (s *Server) fail(c *fiber.Ctx, err error, storageMsg string) error {
	env, kind := engine.FailureEnvelope(err, storageMsg)

	status := fiber.StatusBadRequest
	switch kind {
	case engine.FailureNotFound:
		status = fiber.StatusNotFound
	case engine.FailureStorage:
		status = fiber.StatusInternalServerError
		log.Printf("[httpapi] %s: %v", storageMsg, err)
	}

	return c.Status(status).JSON(env)
}

// handleList handles GET /api/tasks with optional status, search,
// page, and limit query parameters.
func (s *Server) handleList(c *fiber.Ctx) error {
	result, err := s.engine.List(c.Context(), engine.ListRequest{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
	})
	if err != nil {
		return s.fail(c, err, "Error fetching tasks")
	}
	return c.JSON(engine.NewListEnvelope(result))
}

// handleGet handles GET /api/tasks/:id.
func (s *Server) handleGet(c *fiber.Ctx) error {
	t, err := s.engine.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err, "Error fetching task")
	}
	return c.JSON(engine.NewTaskEnvelope(t, ""))
}

// handleCreate handles POST /api/tasks.
func (s *Server) handleCreate(c *fiber.Ctx) error {
	var in task.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(engine.ErrorEnvelope{
			Success: false,
			Message: "Invalid request body",
		})
	}

	created, err := s.engine.Create(c.Context(), in)
	if err != nil {
		return s.fail(c, err, "Error creating task")
	}
	return c.Status(fiber.StatusCreated).JSON(engine.NewTaskEnvelope(created, "Task created successfully"))
}

// handleUpdate handles PUT and PATCH /api/tasks/:id. Both verbs apply
// the same partial-update semantics.
func (s *Server) handleUpdate(c *fiber.Ctx) error {
	var in task.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(engine.ErrorEnvelope{
			Success: false,
			Message: "Invalid request body",
		})
	}

	updated, err := s.engine.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return s.fail(c, err, "Error updating task")
	}
	return c.JSON(engine.NewTaskEnvelope(updated, "Task updated successfully"))
}

// handleDelete handles DELETE /api/tasks/:id, returning the deleted
// record.
func (s *Server) handleDelete(c *fiber.Ctx) error {
	deleted, err := s.engine.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err, "Error deleting task")
	}
	return c.JSON(engine.NewTaskEnvelope(deleted, "Task deleted successfully"))
}

// handleListByStatus handles GET /api/tasks/status/:status. Unlike the
// listing query parameter, an invalid status here is a hard error.
func (s *Server) handleListByStatus(c *fiber.Ctx) error {
	status := c.Params("status")
	tasks, err := s.engine.ListByStatus(c.Context(), status)
	if err != nil {
		return s.fail(c, err, "Error fetching tasks by status")
	}
	return c.JSON(engine.NewStatusListEnvelope(status, tasks))
}

// handleStats handles GET /api/tasks/stats.
func (s *Server) handleStats(c *fiber.Ctx) error {
	st, err := s.engine.Stats(c.Context())
	if err != nil {
		return s.fail(c, err, "Error fetching task statistics")
	}
	return c.JSON(engine.NewStatsEnvelope(st))
}
