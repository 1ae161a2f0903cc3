package main

import (
	"io"
	"os"

	"appliancestore/internal/config"
	"appliancestore/internal/http/handlers"
	applog "appliancestore/internal/log"
	"appliancestore/internal/repos"
)

func main() {
	cfg := config.Load()
	applog.SetLevel(cfg.LogLevel)

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Error(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	if err := run(cfg); err != nil {
		applog.Error(nil, "server.exit", err, nil)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	db, err := repos.OpenDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg))

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "database_path": cfg.DBPath})
	return app.Listen(":" + cfg.Port)
}
