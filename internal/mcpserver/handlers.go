package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"taskmanager/internal/engine"
	"taskmanager/internal/task"
)

// TaskServer holds the engine handle shared by all tool handlers.
type TaskServer struct {
	engine *engine.Service
}

// NewTaskServer creates a TaskServer around the given engine.
func NewTaskServer(svc *engine.Service) *TaskServer {
	return &TaskServer{engine: svc}
}

// envelopeResult marshals a success envelope as indented JSON text.
func envelopeResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// failureResult converts an engine error into an error tool result.
// Validation failures append their ordered field messages so a client
// can render them individually.
func failureResult(err error, storageMsg string) *mcp.CallToolResult {
	env, _ := engine.FailureEnvelope(err, storageMsg)
	msg := env.Message
	if len(env.Errors) > 0 {
		msg += ": " + strings.Join(env.Errors, "; ")
	}
	return mcp.NewToolResultError(msg)
}

// optionalString returns a pointer to the string argument named key,
// or nil when the argument was absent. An explicitly provided empty
// string is still "provided" and will fail validation downstream.
func optionalString(args map[string]any, key string) *string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return &s
}

// HandleListTasks lists tasks with optional status/search/page/limit
// parameters.
func (ts *TaskServer) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ts.engine.List(ctx, engine.ListRequest{
		Status: request.GetString("status", ""),
		Search: request.GetString("search", ""),
		Page:   request.GetString("page", ""),
		Limit:  request.GetString("limit", ""),
	})
	if err != nil {
		return failureResult(err, "Error fetching tasks"), nil
	}
	return envelopeResult(engine.NewListEnvelope(result))
}

// HandleGetTask fetches a single task by id.
func (ts *TaskServer) HandleGetTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	t, err := ts.engine.Get(ctx, id)
	if err != nil {
		return failureResult(err, "Error fetching task"), nil
	}
	return envelopeResult(engine.NewTaskEnvelope(t, ""))
}

// HandleCreateTask creates a new task.
func (ts *TaskServer) HandleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: description"), nil
	}

	created, err := ts.engine.Create(ctx, task.CreateInput{
		Title:       title,
		Description: description,
		Status:      request.GetString("status", ""),
	})
	if err != nil {
		return failureResult(err, "Error creating task"), nil
	}
	return envelopeResult(engine.NewTaskEnvelope(created, "Task created successfully"))
}

// HandleUpdateTask applies a partial update to a task. Absent
// arguments leave the corresponding fields unchanged.
func (ts *TaskServer) HandleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	args := request.GetArguments()
	in := task.UpdateInput{
		Title:       optionalString(args, "title"),
		Description: optionalString(args, "description"),
		Status:      optionalString(args, "status"),
	}

	updated, err := ts.engine.Update(ctx, id, in)
	if err != nil {
		return failureResult(err, "Error updating task"), nil
	}
	return envelopeResult(engine.NewTaskEnvelope(updated, "Task updated successfully"))
}

// HandleDeleteTask deletes a task and returns the deleted record.
func (ts *TaskServer) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	deleted, err := ts.engine.Delete(ctx, id)
	if err != nil {
		return failureResult(err, "Error deleting task"), nil
	}
	return envelopeResult(engine.NewTaskEnvelope(deleted, "Task deleted successfully"))
}

// HandleTasksByStatus lists all tasks in a required, valid status.
func (ts *TaskServer) HandleTasksByStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := request.RequireString("status")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: status"), nil
	}

	tasks, err := ts.engine.ListByStatus(ctx, status)
	if err != nil {
		return failureResult(err, "Error fetching tasks by status"), nil
	}
	return envelopeResult(engine.NewStatusListEnvelope(status, tasks))
}

// HandleTaskStats returns the aggregate status counts.
func (ts *TaskServer) HandleTaskStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := ts.engine.Stats(ctx)
	if err != nil {
		return failureResult(err, "Error fetching task statistics"), nil
	}
	return envelopeResult(engine.NewStatsEnvelope(st))
}
