package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"liveoverlay.app/hooks/common/id"
	"liveoverlay.app/hooks/common/logger"
	"liveoverlay.app/hooks/core/config"
	"liveoverlay.app/hooks/core/db"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/driver/builtin"
)

var Version = "dev"

// env is what every database-backed command needs.
type env struct {
	cfg      config.Config
	db       *db.DB
	registry *driver.Registry
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "hooksctl",
		Short:         "Operator tooling for the webhook ingestion service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	registry := builtin.NewRegistry()

	rootCmd.AddCommand(servicesCmd(registry))
	rootCmd.AddCommand(provisionCmd(registry))
	rootCmd.AddCommand(pruneEventsCmd(registry))
	rootCmd.AddCommand(migrateCmd(registry))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads config and opens the database. The caller closes env.db.
func connect(ctx context.Context, registry *driver.Registry) (*env, error) {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Setup(cfg)

	// Node ids 0-999 belong to server replicas.
	if err := id.Init(1000 + cfg.NodeID%24); err != nil {
		return nil, err
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &env{cfg: cfg, db: database, registry: registry}, nil
}
