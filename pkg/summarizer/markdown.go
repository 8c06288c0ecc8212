package summarizer

import (
	"fmt"
	"strings"
)

// NewMarkdownFormatter returns a Formatter producing a Markdown report.
func NewMarkdownFormatter(opts ...Option) Formatter {
	o := newFormatOptions(opts)
	return FormatFunc(func(s *Summary) string {
		return formatMarkdown(s, o)
	})
}

func formatMarkdown(s *Summary, o formatOptions) string {
	t := o.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Animation Summary"))
	if s.Source != "" {
		fmt.Fprintf(&sb, "`%s`\n\n", s.Source)
	}

	fmt.Fprintf(&sb, "| %s | %s |\n", t("Item"), t("Value"))
	sb.WriteString("|------|-------|\n")
	for _, row := range overviewRows(s, t) {
		fmt.Fprintf(&sb, "| %s | %s |\n", row[0], row[1])
	}

	if len(s.Frames) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n\n", t("Frames"))
		fmt.Fprintf(&sb, "| # | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			t("Offset"), t("Size"), t("Duration"), t("End"), t("Codec"), t("Blend"), t("Dispose"), t("Bytes"))
		sb.WriteString("|---|--------|------|----------|-----|-------|-------|---------|-------|\n")
		for _, f := range s.Frames {
			fmt.Fprintf(&sb, "| %d | %d,%d | %dx%d | %d ms | %d ms | %s | %s | %s | %s |\n",
				f.Index, f.X, f.Y, f.Width, f.Height, f.DurationMs, f.EndMs,
				f.Codec, f.Blend, f.Dispose, formatBytes(int64(f.Bytes)))
		}
	}

	if len(s.Metadata) > 0 {
		fmt.Fprintf(&sb, "\n## %s\n\n", t("Metadata"))
		for _, id := range s.Metadata {
			fmt.Fprintf(&sb, "- %s\n", strings.TrimSpace(id))
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(footer(s, o))
	sb.WriteString("\n")
	return sb.String()
}

// overviewRows returns the label/value pairs shared by all formats.
func overviewRows(s *Summary, t func(string) string) [][2]string {
	loop := t("Infinite")
	if s.Animation.LoopCount > 0 {
		loop = fmt.Sprintf("%d", s.Animation.LoopCount)
	}
	alpha := t("No")
	if s.Canvas.HasAlpha {
		alpha = t("Yes")
	}
	return [][2]string{
		{t("Canvas"), fmt.Sprintf("%dx%d", s.Canvas.Width, s.Canvas.Height)},
		{t("Alpha"), alpha},
		{t("Frame Count"), fmt.Sprintf("%d", s.Animation.FrameCount)},
		{t("Duration"), fmt.Sprintf("%d ms", s.Animation.DurationMs)},
		{t("Loop Count"), loop},
		{t("Background"), fmt.Sprintf("#%08X", s.Animation.BackgroundColor)},
		{t("File Size"), formatBytes(s.Animation.FileSize)},
	}
}

func footer(s *Summary, o formatOptions) string {
	by := "webpkit"
	if o.version != "" {
		by += " " + o.version
	}
	return fmt.Sprintf("%s %s, %s", o.translate("Generated by"), by, s.GeneratedAt.Format("2006-01-02 15:04:05"))
}

// formatBytes renders a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
