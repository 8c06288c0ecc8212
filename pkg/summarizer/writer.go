package summarizer

import (
	"fmt"
	"io"

	"github.com/user/webpkit/pkg/ports"
)

// Writer writes formatted summaries.
type Writer struct {
	formatter Formatter
}

// NewWriter creates a new Writer with the given Formatter.
func NewWriter(formatter Formatter) *Writer {
	return &Writer{
		formatter: formatter,
	}
}

// Write formats the summary to w.
func (w *Writer) Write(out io.Writer, summary *Summary) error {
	if _, err := io.WriteString(out, w.formatter.Format(summary)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteFile formats the summary and stores it at path through fs.
func (w *Writer) WriteFile(fs ports.FileSystem, path string, summary *Summary) error {
	if err := fs.WriteFile(path, []byte(w.formatter.Format(summary))); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
