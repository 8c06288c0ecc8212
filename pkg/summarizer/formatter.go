package summarizer

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Option configures the built-in formatters.
type Option func(*formatOptions)

type formatOptions struct {
	translate func(string) string
	version   string
}

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) Option {
	return func(o *formatOptions) {
		if fn != nil {
			o.translate = fn
		}
	}
}

// WithVersion adds the tool version to the report footer.
func WithVersion(version string) Option {
	return func(o *formatOptions) { o.version = version }
}

func newFormatOptions(opts []Option) formatOptions {
	o := formatOptions{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
