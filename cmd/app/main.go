package main

import (
	"log"

	"github.com/andreyxaxa/Photo-Pipeline/config"
	"github.com/andreyxaxa/Photo-Pipeline/internal/app"
)

func main() {
	// Config
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("Config error: %s", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.Run(cfg)
}
