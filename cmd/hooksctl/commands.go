package main

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"liveoverlay.app/hooks/core/db"
	"liveoverlay.app/hooks/internal/broadcast"
	"liveoverlay.app/hooks/internal/driver"
	"liveoverlay.app/hooks/internal/service"
	"liveoverlay.app/hooks/internal/store"
)

func servicesCmd(registry *driver.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List registered service drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tNAME\tEVENTS\tCONTROLS")
			for _, key := range registry.Services() {
				d, err := registry.Driver(key)
				if err != nil {
					return err
				}
				controls := make([]string, 0, len(d.AutoProvisionedControls()))
				for _, def := range d.AutoProvisionedControls() {
					controls = append(controls, def.Key)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					key, d.DisplayName(),
					strings.Join(d.SupportedEventTypes(), ","),
					strings.Join(controls, ","))
			}
			return w.Flush()
		},
	}
}

func provisionCmd(registry *driver.Registry) *cobra.Command {
	var serviceKey string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create missing managed controls for every integration of a service",
		Long: `Re-run control provisioning for every connected integration of a service.

Existing controls keep their values. Run this after a driver gains a new
auto-provisioned control.

Examples:
  hooksctl provision --service kofi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := registry.Driver(serviceKey)
			if err != nil {
				return err
			}

			e, err := connect(ctx, registry)
			if err != nil {
				return err
			}
			defer e.db.Close()

			stores := store.NewStores(e.db.Queries())
			updates := service.NewControlUpdateService(stores.Controls(), service.NewTxRunner(e.db), broadcast.NewLogPublisher())

			integrations, err := stores.Integrations().ListByService(ctx, serviceKey)
			if err != nil {
				return fmt.Errorf("listing integrations: %w", err)
			}

			total := 0
			for _, integration := range integrations {
				created, err := updates.Provision(ctx, integration.UserID, d)
				if err != nil {
					slog.ErrorContext(ctx, "provision failed", "user_id", integration.UserID, "error", err)
					continue
				}
				total += created
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d integrations, %d controls created\n", len(integrations), total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&serviceKey, "service", "s", "", "service key (see hooksctl services)")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func pruneEventsCmd(registry *driver.Registry) *cobra.Command {
	var (
		olderThan time.Duration
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "prune-events",
		Short: "Delete stored webhook events older than a cutoff",
		Long: `Delete stored webhook events older than a cutoff.

Pruned events no longer dedupe, so keep the window longer than any service's
redelivery period.

Examples:
  hooksctl prune-events --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 24*time.Hour {
				return fmt.Errorf("--older-than must be at least 24h, got %s", olderThan)
			}
			cutoff := time.Now().Add(-olderThan)
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would delete events created before %s\n", cutoff.Format(time.RFC3339))
				return nil
			}

			ctx := cmd.Context()
			e, err := connect(ctx, registry)
			if err != nil {
				return err
			}
			defer e.db.Close()

			deleted, err := store.NewStores(e.db.Queries()).ExternalEvents().DeleteBefore(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("pruning events: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d events created before %s\n", deleted, cutoff.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum event age")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the cutoff without deleting")
	return cmd
}

func migrateCmd(registry *driver.Registry) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
				return err
			}

			ctx := cmd.Context()
			e, err := connect(ctx, registry)
			if err != nil {
				return err
			}
			defer e.db.Close()

			if err := e.db.ApplySchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return cmd
}
