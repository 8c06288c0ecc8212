package summarizer

import (
	"fmt"
	"strings"
)

// NewTextFormatter returns a Formatter producing aligned plain text.
func NewTextFormatter(opts ...Option) Formatter {
	o := newFormatOptions(opts)
	return FormatFunc(func(s *Summary) string {
		return formatText(s, o)
	})
}

func formatText(s *Summary, o formatOptions) string {
	t := o.translate
	var sb strings.Builder

	if s.Source != "" {
		fmt.Fprintf(&sb, "%s\n", s.Source)
	}

	rows := overviewRows(s, t)
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, row[0], row[1])
	}

	for _, f := range s.Frames {
		fmt.Fprintf(&sb, "  #%-4d %4d,%-4d %5dx%-5d %6d ms -> %6d ms  %-8s %-5s %-10s %s\n",
			f.Index, f.X, f.Y, f.Width, f.Height, f.DurationMs, f.EndMs,
			f.Codec, f.Blend, f.Dispose, formatBytes(int64(f.Bytes)))
	}
	if len(s.Metadata) > 0 {
		fmt.Fprintf(&sb, "  %s: %s\n", t("Metadata"), strings.Join(s.Metadata, ", "))
	}
	return sb.String()
}
