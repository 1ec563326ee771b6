package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anantaclub/ananta/internal/buildinfo"
	"github.com/anantaclub/ananta/internal/client/cli"
	"github.com/anantaclub/ananta/internal/client/config"
	"github.com/anantaclub/ananta/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger := logging.New(os.Stderr, level)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
