// Package main provides the entry point for the openapi-domaingen CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/cli"
)

func main() {
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log)
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
