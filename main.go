package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clubadmin/clubadmin/internal/xslog"
	"github.com/clubadmin/clubadmin/server"
	"github.com/clubadmin/clubadmin/server/database"
	"github.com/clubadmin/clubadmin/server/web"
)

func main() {
	cfgPath := flag.String("config", "config.toml", "path to the config file")
	flag.Parse()

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("Failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	setupLogger(cfg.Log)
	slog.Info("Starting club admin...", slog.String("addr", cfg.Server.Addr), slog.Bool("dev", cfg.Dev))
	slog.Debug("Loaded config", slog.String("config", cfg.String()))

	db, err := database.New(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err = db.Close(); err != nil {
			slog.Error("Failed to close database", slog.Any("err", err))
		}
	}()

	srv, err := server.New(cfg, db)
	if err != nil {
		slog.Error("Failed to create server", slog.Any("err", err))
		return
	}

	srv.Start(web.Routes(srv))
	defer srv.Stop()

	slog.Info("Server started", slog.String("addr", cfg.Server.Addr), slog.String("public_url", cfg.Server.PublicURL))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGTERM, syscall.SIGINT)
	<-s
	slog.Info("Shutting down...")
}

func setupLogger(cfg server.LogConfig) {
	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	if cfg.Format == server.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	handler = xslog.NewFilterHandler(handler, xslog.DropPathPrefixes("path", "/static/", "/dev/reload"))
	slog.SetDefault(slog.New(handler))
}
