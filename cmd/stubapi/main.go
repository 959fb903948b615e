package main

import (
	"context"
	"log"
	"os"

	"github.com/vitortiger/utm-tracker-saas/internal/buildinfo"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
	"github.com/vitortiger/utm-tracker-saas/internal/server"
	"github.com/vitortiger/utm-tracker-saas/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}

}
