package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"papersim/internal/config"
	"papersim/internal/logger"
	"papersim/internal/server"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "config file (YAML); empty uses built-in defaults")
		addr    = flag.String("addr", "", "listen address override")
		slots   = flag.Int("slots", server.DefaultMaxConcurrentRuns, "max concurrent background runs")
	)
	flag.Parse()

	cfg, watcher, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	logger.SetLevel(cfg.App.LogLevel)

	listen := cfg.App.HTTPAddr
	if *addr != "" {
		listen = *addr
	}

	svc := server.NewService(cfg, *slots)
	if watcher != nil {
		watcher.Subscribe(func(next *config.Config) {
			logger.SetLevel(next.App.LogLevel)
			svc.UpdateBase(next)
		})
	}

	srv, err := server.NewHTTPServer(listen, svc)
	if err != nil {
		log.Fatalf("initializing server failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("listening on %s", listen)
		return srv.Start(ctx)
	})
	if err := group.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}
	svc.Wait()
}

func loadConfig(path string) (*config.Config, *config.Watcher, error) {
	if path == "" {
		if env := os.Getenv("PAPERSIM_CONFIG"); env != "" {
			path = env
		}
	}
	if path == "" {
		return config.Default(), nil, nil
	}
	watcher, err := config.NewWatcher(path)
	if err != nil {
		return nil, nil, err
	}
	return watcher.Current(), watcher, nil
}
