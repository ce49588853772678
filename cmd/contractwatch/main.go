package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/config"
	"scrape-web3/internal/state"
	"scrape-web3/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Contracts.URL == "" {
		log.Fatalf("contracts.url is not configured in %s", *configPath)
	}

	store, err := state.Open(cfg.Contracts.StateFile, cfg.Contracts.OutputFile)
	if err != nil {
		log.Fatalf("failed to open state store: %v", err)
	}

	w := watcher.New(cfg.Contracts, store)
	w.Start(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Infof("signal received, shutting down")
	w.Stop()
}
