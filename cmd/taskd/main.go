// Package main implements taskd, the task manager HTTP API server.
//
// Environment variables:
//   - PORT: HTTP listen port (default: 3001)
//   - TASK_DATA_DIR: directory for file-backed storage (default: ./data)
//   - TASK_STORAGE_BACKEND: "sqlite" (default), "postgres", or "memory"
//   - TASK_SQLITE_PATH: custom SQLite path inside TASK_DATA_DIR
//   - TASK_DATABASE_URL: PostgreSQL connection string (postgres backend)
package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"taskmanager/internal/engine"
	"taskmanager/internal/httpapi"
	"taskmanager/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	dataDir := os.Getenv("TASK_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	store, err := storage.GetStore(ctx, dataDir)
	if err != nil {
		log.Fatalf("[taskd] Failed to initialize storage: %v", err)
	}

	server := httpapi.New(engine.New(store))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	go func() {
		if err := server.Listen(":" + port); err != nil {
			log.Fatalf("[taskd] HTTP server error: %v", err)
		}
	}()

	log.Printf("[taskd] Task API listening on :%s", port)
	log.Printf("[taskd] Health check: http://localhost:%s/health", port)
	log.Printf("[taskd] API base URL: http://localhost:%s/api/tasks", port)

	wait := gfshutdown.GracefulShutdown(
		ctx,
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("[taskd] Shutting down HTTP server...")
				return server.Shutdown()
			},
			"store": func(ctx context.Context) error {
				log.Println("[taskd] Closing storage...")
				return store.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("[taskd] Exited with code: %d", exitCode)
	os.Exit(exitCode)
}
