package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"hwscan/internal/config"
	"hwscan/internal/devwatch"
	"hwscan/internal/logging"
	"hwscan/internal/report"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan now and rescan whenever a DRM device appears or disappears",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := resolveFormat(formatFlag, cfg)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			w := &watcher{cmdCtx: ctx, cfg: cfg, logger: logger, out: out, format: format}
			w.rescan(runCtx, "initial scan")

			monitor := devwatch.New(logger, ctx.debounce(cfg), func(evCtx context.Context, events []devwatch.Event) {
				w.rescan(evCtx, describeEvents(events))
			})
			if err := monitor.Start(runCtx); err != nil {
				return fmt.Errorf("start drm monitor: %w", err)
			}
			defer monitor.Stop()

			<-runCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: table, json or yaml (default from output.format)")
	return cmd
}

// watcher runs one independent scan per trigger. Scan failures are logged and
// the watch continues.
type watcher struct {
	cmdCtx *commandContext
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	format report.Format
}

func (w *watcher) rescan(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	fmt.Fprintf(w.out, "# %s\n", reason)

	result, err := runScan(ctx, w.cmdCtx, w.cfg, w.logger)
	if err != nil {
		logging.WarnWithContext(w.logger, "rescan failed", "watch_scan_failed",
			logging.Error(err),
			logging.String("reason", reason),
		)
		return
	}
	defer result.Release()

	opts := report.Options{Color: report.ColorEnabled(w.out, w.cfg.Output.Color)}
	if err := report.Render(w.out, result, w.format, opts); err != nil {
		logging.WarnWithContext(w.logger, "render failed", "watch_render_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "report for this rescan not shown"),
		)
	}
}

func describeEvents(events []devwatch.Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, e.Action+" "+e.Device)
	}
	return "rescan after " + strings.Join(parts, ", ")
}
