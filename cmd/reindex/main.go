package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pixelpursuit/pixelpursuit-api/config"
	"github.com/pixelpursuit/pixelpursuit-api/internal/container"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
)

// reindex rebuilds the Elasticsearch jobs index from the primary store.
func main() {
	batch := flag.Int("batch", 500, "documents per bulk request")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	cfg.ElasticsearchEnabled = true
	if err := cfg.ValidateReindex(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-reindex", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer c.Close()
	if c.JobIndex == nil {
		logger.Fatal("elasticsearch is not reachable")
	}

	n, err := c.JobIndex.Reindex(ctx, c.Jobs, *batch)
	if err != nil {
		logger.WithError(err).WithField("indexed", n).Fatal("reindex failed")
	}
	logger.WithField("indexed", n).Info("reindex complete")
}
