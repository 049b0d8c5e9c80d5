package main

import (
	"log"

	"github.com/andreyxaxa/Photo-Pipeline/config"
	"github.com/andreyxaxa/Photo-Pipeline/internal/app"
)

func main() {
	// Config comes from the function's environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	app.RunLambda(cfg)
}
