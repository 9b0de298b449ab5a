package main

import (
    "context"
    "errors"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"

    "go.uber.org/zap"

    "monsoonplan/internal/api"
    "monsoonplan/internal/buildinfo"
    "monsoonplan/internal/config"
    "monsoonplan/internal/logger"
)

func main() {
    cfg, err := config.Load(config.GetEnv("CONFIG_DIR", "config"), os.Getenv("CONFIG_ENV"))
    if err != nil {
        log.Fatalf("failed to load config: %v", err)
    }
    lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
    if err != nil {
        log.Fatalf("failed to init logger: %v", err)
    }
    defer func() { _ = lg.Sync() }()

    srvDeps, err := api.NewServer(cfg, lg)
    if err != nil {
        lg.Fatal("failed to init server", zap.Error(err))
    }
    defer func() {
        if err := srvDeps.Close(); err != nil { lg.Warn("close", zap.Error(err)) }
    }()

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           srvDeps.Routes(),
        ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
    }

    srvDeps.Start()

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    errc := make(chan error, 1)
    go func() {
        lg.Info("API listening",
            zap.String("addr", srv.Addr),
            zap.String("version", buildinfo.Version),
            zap.Bool("postgres", cfg.DB.URL != ""),
            zap.Bool("redis", cfg.Redis.URL != ""))
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        if err != nil && !errors.Is(err, http.ErrServerClosed) {
            lg.Error("server error", zap.Error(err))
        }
    case <-ctx.Done():
        lg.Info("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
        defer cancel()
        if err := srv.Shutdown(shutdownCtx); err != nil {
            lg.Error("shutdown", zap.Error(err))
        }
    }
}
