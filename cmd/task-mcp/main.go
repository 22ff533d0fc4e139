// Package main implements the task manager MCP server.
//
// This server exposes task CRUD, filtering, and statistics tools over
// stdio JSON-RPC (Model Context Protocol). Storage is selected via the
// same environment variables as taskd.
package main

import (
	"context"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"taskmanager/internal/engine"
	"taskmanager/internal/mcpserver"
	"taskmanager/internal/storage"
)

func run() int {
	errLogger := log.New(os.Stderr, "[task-mcp] ", log.LstdFlags)

	dataDir := os.Getenv("TASK_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	store, err := storage.GetStore(context.Background(), dataDir)
	if err != nil {
		errLogger.Printf("Failed to initialize storage: %v", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			errLogger.Printf("Failed to close storage: %v", err)
		}
	}()

	srv := mcpserver.NewServer(engine.New(store))

	if err := server.ServeStdio(srv, server.WithErrorLogger(errLogger)); err != nil {
		errLogger.Printf("Server error: %v", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
