// Package main boots the chainledger node. It loads configuration from the
// environment, wires the Redis-backed snapshot storage, writer lease and
// optional webhook notifier into the node service, and hands control to the
// command-line interface.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/chainledger/internal/handlers/cli"
	"github.com/gabapcia/chainledger/internal/infra/notify/webhook"
	"github.com/gabapcia/chainledger/internal/infra/storage/redis"
	"github.com/gabapcia/chainledger/internal/node"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/pkg/resilience/retry"
	"github.com/gabapcia/chainledger/internal/pkg/telemetry"
	"github.com/gabapcia/chainledger/internal/snapshot"

	"github.com/kelseyhightower/envconfig"
	"github.com/pterm/pterm"
)

// envPrefix is prepended to every environment variable read by the process.
const envPrefix = "chainledger"

// config collects every environment-driven setting of the process. Command
// input (addresses, amounts, pagination) arrives through CLI flags instead.
type config struct {
	// LogLevel is the minimum level emitted by the global logger.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LedgerID namespaces the snapshot and writer lease keys, so multiple
	// ledgers can share one Redis instance.
	LedgerID string `envconfig:"LEDGER_ID" default:"chainledger"`

	// Redis connection settings, shared by the snapshot storage and the
	// writer lease.
	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// WriterLeaseTTL bounds how long a crashed process can keep the ledger
	// write lock.
	WriterLeaseTTL time.Duration `envconfig:"WRITER_LEASE_TTL" default:"1m"`

	// WebhookURL, when set, receives every sealed block as a JSON POST.
	WebhookURL string `envconfig:"WEBHOOK_URL"`

	// TelemetryEnabled turns on OTLP gRPC export of traces, metrics and
	// logs. The exporters read their endpoint and credentials from the
	// standard OTEL_EXPORTER_OTLP_* variables.
	TelemetryEnabled bool `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// ServiceName identifies this process in the observability backend.
	ServiceName string `envconfig:"SERVICE_NAME" default:"chainledger"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "telemetry initialization failed: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = shutdown(ctx) }()
	}

	// The logger attaches the OTEL bridge only when telemetry is already up,
	// so it must come after telemetry.Init.
	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	storage, err := redis.NewClient(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", "address", cfg.RedisAddress, "error", err)
	}
	defer storage.Close()

	snapshots := snapshot.New(storage, snapshot.WithRetry(retry.New()))

	opts := []node.Option{
		node.WithWriterLease(storage),
		node.WithWriterLeaseTTL(cfg.WriterLeaseTTL),
	}
	if cfg.WebhookURL != "" {
		opts = append(opts, node.WithBlockNotifier(webhook.NewNotifier(cfg.WebhookURL)))
	}

	if err := cli.Run(ctx, node.New(cfg.LedgerID, snapshots, opts...)); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
