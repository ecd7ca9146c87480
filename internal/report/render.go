package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"hwscan/internal/capability"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml in any case.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want table, json or yaml)", value)
	}
}

// Options tunes table output. JSON and YAML ignore it.
type Options struct {
	Color bool
}

// Render writes report to w in format.
func Render(w io.Writer, report *capability.Report, format Format, opts Options) error {
	info := report.Info()
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		return renderTables(w, info, opts)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// ColorEnabled resolves an auto/always/never mode against w. Auto colours
// terminals unless NO_COLOR is set.
func ColorEnabled(w io.Writer, mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTables(w io.Writer, info capability.ReportInfo, opts Options) error {
	if len(info.Devices) == 0 {
		_, err := fmt.Fprintln(w, "No hardware transcode devices found.")
		return err
	}
	for i, device := range info.Devices {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		title := deviceTitle(device)
		if opts.Color {
			title = text.Colors{text.FgHiBlue, text.Bold}.Sprint(title)
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, deviceTable(device, opts)); err != nil {
			return err
		}
	}
	return nil
}

func deviceTitle(d capability.DeviceInfo) string {
	var b strings.Builder
	b.WriteString(d.Driver.String())
	if d.Ordinal != nil {
		fmt.Fprintf(&b, " cuda:%d", *d.Ordinal)
	}
	if d.Path != "" {
		b.WriteString(" ")
		b.WriteString(d.Path)
	}
	if d.Name != "" {
		fmt.Fprintf(&b, " - %s", d.Name)
	}
	if d.UUID != "" {
		fmt.Fprintf(&b, " (%s)", d.UUID)
	}
	return b.String()
}

var tableHeader = table.Row{"Codec", "Mode", "Profile", "Chroma", "Depth", "Max size", "B-frames"}

func deviceTable(d capability.DeviceInfo, opts Options) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(tableHeader)

	decodeLabel, encodeLabel := "decode", "encode"
	if opts.Color {
		decodeLabel = text.FgGreen.Sprint(decodeLabel)
		encodeLabel = text.FgYellow.Sprint(encodeLabel)
	}
	for i, codec := range d.Codecs {
		if i > 0 {
			tw.AppendSeparator()
		}
		for _, spec := range codec.Decoding {
			tw.AppendRow(table.Row{
				codec.Codec.String(), decodeLabel, "-",
				spec.Chroma.String(), depthLabel(spec.ColorDepth),
				sizeLabel(spec.MaxWidth, spec.MaxHeight), "-",
			})
		}
		for _, spec := range codec.Encoding {
			tw.AppendRow(table.Row{
				codec.Codec.String(), encodeLabel, spec.Profile.String(),
				spec.Chroma.String(), depthLabel(spec.ColorDepth),
				sizeLabel(spec.MaxWidth, spec.MaxHeight), spec.BFramesSupported.String(),
			})
		}
	}
	if len(d.Codecs) == 0 {
		tw.AppendRow(table.Row{"(none)", "", "", "", "", "", ""})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func depthLabel(d capability.ColorDepth) string {
	return fmt.Sprintf("%d-bit", d.Bits())
}

func sizeLabel(width, height uint32) string {
	if width == 0 && height == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", width, height)
}
