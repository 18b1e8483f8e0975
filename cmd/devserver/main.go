package main

import (
	"context"
	"log"
	"os"

	"github.com/FRANCK359/smart-search-ai/internal/devserver"
	"github.com/FRANCK359/smart-search-ai/internal/logging"
)

func main() {

	cfg, err := devserver.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	app := devserver.NewApp(cfg, logger)

	if err := app.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
