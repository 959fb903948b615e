package main

import (
	"context"
	"log"
	"os"

	"github.com/vitortiger/utm-tracker-saas/internal/buildinfo"
	"github.com/vitortiger/utm-tracker-saas/internal/client/cli"
	"github.com/vitortiger/utm-tracker-saas/internal/client/config"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
