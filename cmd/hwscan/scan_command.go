package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hwscan/internal/capability"
	"hwscan/internal/config"
	"hwscan/internal/hwscan"
	"hwscan/internal/report"
	"hwscan/internal/scanlock"
)

// scanError carries the scan error code to the process exit status.
type scanError struct {
	code hwscan.ErrorCode
	err  error
}

func (e *scanError) Error() string {
	return fmt.Sprintf("scan failed (%s): %v", e.code, e.err)
}

func (e *scanError) Unwrap() error { return e.err }

type scanFlags struct {
	format string
	vendor string
	output string
	wait   bool
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Probe GPUs once and print their transcode capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := resolveFormat(flags.format, cfg)
			if err != nil {
				return err
			}
			filter, err := parseVendorFilter(flags.vendor)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock, err := scanlock.Acquire(cmd.Context(), cfg.Scan.LockPath, flags.wait)
			if err != nil {
				if errors.Is(err, scanlock.ErrLocked) {
					return fmt.Errorf("%w; rerun with --wait to queue behind it", err)
				}
				return err
			}
			defer lock.Release()

			result, err := runScan(cmd.Context(), ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer result.Release()

			return withFilter(result, filter, func(r *capability.Report) error {
				return writeReport(cmd.OutOrStdout(), flags.output, r, format, cfg)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: table, json or yaml (default from output.format)")
	cmd.Flags().StringVar(&flags.vendor, "vendor", "", "Only report devices of one driver: nvidia or vaapi")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.wait, "wait", false, "Wait for a concurrent scan to finish instead of failing")
	return cmd
}

func runScan(ctx context.Context, cmdCtx *commandContext, cfg *config.Config, logger *slog.Logger) (*capability.Report, error) {
	result, err := cmdCtx.newScanner(cfg, logger).Scan(ctx)
	if err != nil {
		return nil, &scanError{code: hwscan.CodeOf(err), err: err}
	}
	return result, nil
}

// withFilter calls fn with result narrowed to filter, or with result itself
// when filter is nil. A narrowed copy is released once fn returns.
func withFilter(result *capability.Report, filter *capability.Driver, fn func(*capability.Report) error) error {
	if filter == nil {
		return fn(result)
	}
	filtered := result.Filter(*filter)
	defer filtered.Release()
	return fn(filtered)
}

func resolveFormat(flag string, cfg *config.Config) (report.Format, error) {
	value := strings.TrimSpace(flag)
	if value == "" {
		value = cfg.Output.Format
	}
	return report.ParseFormat(value)
}

func parseVendorFilter(value string) (*capability.Driver, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	driver, err := capability.ParseDriver(value)
	if err != nil {
		return nil, fmt.Errorf("--vendor: %w", err)
	}
	return &driver, nil
}

// writeReport renders to stdout, or to path when set. Files never get
// colour.
func writeReport(stdout io.Writer, path string, result *capability.Report, format report.Format, cfg *config.Config) error {
	path = strings.TrimSpace(path)
	if path == "" {
		opts := report.Options{Color: report.ColorEnabled(stdout, cfg.Output.Color)}
		return report.Render(stdout, result, format, opts)
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := report.Render(file, result, format, report.Options{}); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
