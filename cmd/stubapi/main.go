package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anantaclub/ananta/internal/buildinfo"
	"github.com/anantaclub/ananta/internal/logging"
	"github.com/anantaclub/ananta/internal/stubapi"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := stubapi.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	store := stubapi.NewStore()
	store.Seed(stubapi.User{
		Mobile:      "9999999999",
		Name:        "Demo Member",
		Email:       "demo@ananta.club",
		KYCStatus:   "verified",
		Memberships: []stubapi.Membership{{PlanID: "GOLD-5Y", IsActive: true}},
	})

	srv := stubapi.NewServer(*cfg, store, logging.New(os.Stderr, level))
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
