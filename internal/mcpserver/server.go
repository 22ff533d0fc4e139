package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"taskmanager/internal/engine"
)

// NewServer creates an MCP server with all task tools registered
// against the given engine.
func NewServer(svc *engine.Service) *server.MCPServer {
	ts := NewTaskServer(svc)

	s := server.NewMCPServer(
		"taskmanager",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Read tools
	s.AddTool(listTasksTool(), ts.HandleListTasks)
	s.AddTool(getTaskTool(), ts.HandleGetTask)
	s.AddTool(tasksByStatusTool(), ts.HandleTasksByStatus)
	s.AddTool(taskStatsTool(), ts.HandleTaskStats)

	// Mutation tools
	s.AddTool(createTaskTool(), ts.HandleCreateTask)
	s.AddTool(updateTaskTool(), ts.HandleUpdateTask)
	s.AddTool(deleteTaskTool(), ts.HandleDeleteTask)

	return s
}
