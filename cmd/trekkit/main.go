package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trekware/trekkit/config"
	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/engine"
	"github.com/trekware/trekkit/feature"
	"github.com/trekware/trekkit/ingest"
	"github.com/trekware/trekkit/server"
	"github.com/trekware/trekkit/store"
)

func main() {
	configPath := flag.String("config", "", "YAML 配置文件路径，空则使用默认配置")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*configPath, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, log *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromYAML(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	log.Info("store ready", "kind", st.Name())

	ctx := context.Background()

	if cfg.Catalog.CSVPath != "" {
		treks, err := ingest.LoadTreks(cfg.Catalog.CSVPath)
		if err != nil {
			return err
		}
		n, err := ingest.Seed(ctx, st, treks)
		if err != nil {
			return err
		}
		log.Info("catalog seeded", "path", cfg.Catalog.CSVPath, "treks", n)
	}

	var opts []engine.Option
	if cfg.Feast.Enabled {
		provider, err := feature.NewFeastProvider(
			cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project, cfg.Feast.FeatureRefs)
		if err != nil {
			// 特征服务不可达只降级，不阻塞启动
			log.Warn("feast unavailable, serving without online features", "error", err)
		} else {
			defer provider.Close()
			opts = append(opts, engine.WithProvider(provider))
			log.Info("feast online features enabled", "project", cfg.Feast.Project)
		}
	}

	eng, err := engine.New(st, cfg.Engine, opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(eng, log, cfg.Server.StaticDir).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg config.StoreConfig) (core.RecordStore, error) {
	switch cfg.Kind {
	case "", "memory":
		return store.NewMemory(), nil
	case "redis":
		return store.NewRedis(cfg.Redis.Addr, cfg.Redis.DB)
	default:
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			"unknown store kind: "+cfg.Kind)
	}
}
