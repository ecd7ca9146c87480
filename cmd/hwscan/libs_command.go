package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"hwscan/internal/deps"
	"hwscan/internal/dylib"
	"hwscan/internal/nvidia"
	"hwscan/internal/vaapi"
)

func newLibsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "libs",
		Short:       "Show which driver libraries resolve on this host",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckLibraries(ctx.driverLoader(), []dylib.Spec{nvidia.Spec(), vaapi.Spec()})
			if jsonOutput {
				return writeJSON(cmd, libStatusViews(statuses))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLibsTable(statuses))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit library status as JSON")
	return cmd
}

func renderLibsTable(statuses []deps.Status) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Driver libraries")
	tw.AppendHeader(table.Row{"Vendor", "Library", "Resolved", "Usable", "Detail"})

	for _, s := range statuses {
		resolved := s.Resolved
		if resolved == "" {
			resolved = "-"
		}
		detail := s.Detail
		if detail == "" && len(s.Optional) > 0 {
			detail = "optional missing: " + strings.Join(s.Optional, ", ")
		}
		tw.AppendRow(table.Row{s.Vendor, s.Library, resolved, yesNo(s.Available), detail})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Vendor", AutoMerge: true},
		{Name: "Usable", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Name: "Detail", WidthMax: 72},
	})
	return tw.Render()
}

type libStatusView struct {
	Vendor          string   `json:"vendor"`
	Library         string   `json:"library"`
	Candidates      []string `json:"candidates"`
	Resolved        string   `json:"resolved,omitempty"`
	Available       bool     `json:"available"`
	MissingRequired []string `json:"missing_required,omitempty"`
	MissingOptional []string `json:"missing_optional,omitempty"`
	Detail          string   `json:"detail,omitempty"`
}

func libStatusViews(statuses []deps.Status) []libStatusView {
	views := make([]libStatusView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, libStatusView{
			Vendor:          s.Vendor,
			Library:         s.Library,
			Candidates:      s.Candidates,
			Resolved:        s.Resolved,
			Available:       s.Available,
			MissingRequired: s.Missing,
			MissingOptional: s.Optional,
			Detail:          s.Detail,
		})
	}
	return views
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
