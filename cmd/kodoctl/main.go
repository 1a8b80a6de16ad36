// File: cmd/kodoctl/main.go
package main

import (
	"os"

	"kodoctl/internal/logger"

	// Explicitly import provider implementations to ensure their init() functions run and they register themselves
	_ "kodoctl/pkg/storage/aws"
	_ "kodoctl/pkg/storage/gcp"
	_ "kodoctl/pkg/storage/kodo"
	_ "kodoctl/pkg/storage/minio"
)

func main() {
	log := logger.NewLogger()

	app, err := newApp(log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	Execute(app)
}
