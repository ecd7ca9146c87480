package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hwscan/internal/config"
	"hwscan/internal/deps"
	"hwscan/internal/dylib"
	"hwscan/internal/nvidia"
	"hwscan/internal/preflight"
	"hwscan/internal/report"
	"hwscan/internal/vaapi"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check driver libraries and render node permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := report.ColorEnabled(out, cfg.Output.Color)

			statuses := deps.CheckLibraries(ctx.driverLoader(), enabledSpecs(cfg))
			checks := preflight.RunAll(cfg)

			lines, problems := doctorLines(statuses, checks, colorize)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)
			if problems == 0 {
				fmt.Fprintln(out, "All checks passed")
			} else {
				fmt.Fprintf(out, "%d problem(s) found\n", problems)
			}
			return nil
		},
	}
}

func enabledSpecs(cfg *config.Config) []dylib.Spec {
	var specs []dylib.Spec
	if cfg.Scan.Nvidia {
		specs = append(specs, nvidia.Spec())
	}
	if cfg.Scan.Vaapi {
		specs = append(specs, vaapi.Spec())
	}
	return specs
}

// doctorLines renders both sections and counts failed checks. A library
// missing only optional symbols is a warning, not a problem.
func doctorLines(statuses []deps.Status, checks []preflight.Result, colorize bool) ([]string, int) {
	var (
		lines    []string
		problems int
	)

	lines = append(lines, renderSectionHeader("Driver libraries", colorize))
	for _, s := range statuses {
		label := s.Vendor + " " + s.Library
		switch {
		case !s.Available:
			problems++
			lines = append(lines, renderStatusLine(label, statusError, s.Detail, colorize))
		case len(s.Optional) > 0:
			msg := fmt.Sprintf("%s (optional missing: %s)", s.Resolved, strings.Join(s.Optional, ", "))
			lines = append(lines, renderStatusLine(label, statusWarn, msg, colorize))
		default:
			lines = append(lines, renderStatusLine(label, statusOK, s.Resolved, colorize))
		}
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Devices", colorize))
	if len(checks) == 0 {
		lines = append(lines, renderStatusLine("Render nodes", statusInfo, "not checked (VA-API disabled)", colorize))
	}
	for _, c := range checks {
		kind := statusOK
		if !c.Passed {
			kind = statusError
			problems++
		}
		lines = append(lines, renderStatusLine(c.Name, kind, c.Detail, colorize))
	}
	return lines, problems
}
