// Package mcpserver exposes the task engine as MCP tools over stdio
// JSON-RPC, for use from MCP-capable clients.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// listTasksTool returns the tool definition for listing tasks.
func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks with optional filtering and pagination. Results are ordered newest first."),
		mcp.WithString("status",
			mcp.Description("Filter by status (pending, in-progress, completed). Invalid values are ignored.")),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring match against title or description")),
		mcp.WithString("page",
			mcp.Description("Page number (default 1, minimum 1)")),
		mcp.WithString("limit",
			mcp.Description("Page size (default 10, maximum 100)")),
	)
}

// getTaskTool returns the tool definition for fetching a single task.
func getTaskTool() mcp.Tool {
	return mcp.NewTool("get_task",
		mcp.WithDescription("Get a single task by its identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier")),
	)
}

// createTaskTool returns the tool definition for creating a task.
func createTaskTool() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task. Titles must be unique across all tasks."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title (1-100 characters after trimming, unique)")),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Task description (1-500 characters after trimming)")),
		mcp.WithString("status",
			mcp.Description("Initial status (pending, in-progress, completed). Defaults to pending.")),
	)
}

// updateTaskTool returns the tool definition for updating a task.
func updateTaskTool() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription("Update a task's title, description, or status. Omitted fields are left unchanged; at least one field must be provided."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier")),
		mcp.WithString("title",
			mcp.Description("New title (1-100 characters after trimming, unique)")),
		mcp.WithString("description",
			mcp.Description("New description (1-500 characters after trimming)")),
		mcp.WithString("status",
			mcp.Description("New status (pending, in-progress, completed)")),
	)
}

// deleteTaskTool returns the tool definition for deleting a task.
func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task by its identifier. Returns the deleted record."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task identifier")),
	)
}

// tasksByStatusTool returns the tool definition for the unpaginated
// by-status listing.
func tasksByStatusTool() mcp.Tool {
	return mcp.NewTool("tasks_by_status",
		mcp.WithDescription("List all tasks in a given status, newest first, without pagination."),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("Status to list (pending, in-progress, completed)")),
	)
}

// taskStatsTool returns the tool definition for aggregate counts.
func taskStatsTool() mcp.Tool {
	return mcp.NewTool("task_stats",
		mcp.WithDescription("Get the total task count and the count per status over the entire collection."),
	)
}
