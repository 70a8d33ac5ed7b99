package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/metrics"
	"github.com/foxzi/lure/internal/views"
)

var (
	reportsIMAPID   int64
	reportsInterval time.Duration
	reportsActive   bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Emails reported outside of campaigns",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List non-campaign reports",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

var reportsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete non-campaign reports",
	Args:  cobra.NoArgs,
	RunE:  runReportsClear,
}

var reportsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload non-campaign reports periodically",
	Long: `Reload the report list every interval until interrupted. When metrics are
enabled in the config, request metrics are served while watching.`,
	Args: cobra.NoArgs,
	RunE: runReportsWatch,
}

func init() {
	reportsCmd.PersistentFlags().Int64Var(&reportsIMAPID, "imap-id", 0, "Only reports from this mailbox")
	reportsListCmd.Flags().BoolVar(&reportsActive, "active", false, "Also list active campaigns")
	reportsWatchCmd.Flags().DurationVar(&reportsInterval, "interval", 0, "Reload interval (default: reports.watch_interval)")

	reportsCmd.AddCommand(reportsListCmd, reportsClearCmd, reportsWatchCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := views.Reports(a.client, a.surface(cmd), reportsIMAPID).Load(ctx); err != nil {
		return err
	}
	if reportsActive {
		fmt.Fprintln(cmd.OutOrStdout())
		return views.ActiveCampaigns(a.client, a.surface(cmd)).Load(ctx)
	}
	return nil
}

func runReportsClear(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	detail := "This will delete all non-campaign reports. This can't be undone!"
	if reportsIMAPID > 0 {
		detail = fmt.Sprintf("This will delete all non-campaign reports of mailbox %d. This can't be undone!", reportsIMAPID)
	}

	return views.RunAction(cmd.Context(), views.Reports(a.client, a.surface(cmd), reportsIMAPID), a.confirm, a.notifier, views.Action{
		Confirm: "Are you sure?",
		Detail:  detail,
		Button:  "Clear",
		Success: "Non-campaign reports cleared successfully!",
		Failure: "Error clearing reports",
		Run: func(ctx context.Context) error {
			_, err := a.client.ClearNonCampaignReports(ctx, reportsIMAPID).Await(ctx)
			return err
		},
	})
}

func runReportsWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	interval := reportsInterval
	if interval <= 0 {
		interval = a.cfg.Reports.WatchInterval
	}

	ctx := cmd.Context()
	if a.cfg.Metrics.Enabled {
		srv := metrics.NewServer(a.metrics, a.cfg.Metrics.ListenAddr, a.cfg.Metrics.Path, a.logger)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	view := views.Reports(a.client, a.surface(cmd), reportsIMAPID)
	return watch(ctx, view, interval, a.logger)
}

// watch loads view immediately and then every interval until ctx is done.
// Failed loads are retried on the next tick.
func watch(ctx context.Context, view views.Loader, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := view.Load(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn("reload failed", "error", err, "transport", client.IsTransport(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
