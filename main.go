package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
	"github.com/LRM-Solutions/fortelyne-app-checklist/client"
	"github.com/LRM-Solutions/fortelyne-app-checklist/commands"
	"github.com/LRM-Solutions/fortelyne-app-checklist/config"
	"github.com/LRM-Solutions/fortelyne-app-checklist/log"
	"github.com/LRM-Solutions/fortelyne-app-checklist/store"
)

func main() {
	cfg, args, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal("main.store.open:", err)
	}
	defer st.Close()

	app := app.App{
		Store:  st,
		Client: client.New(cfg, st),
		Config: cfg,
	}

	// interrupting the process aborts any in-flight request
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Run(ctx, app, args); err != nil {
		log.Fatal("main:", err)
	}
}
