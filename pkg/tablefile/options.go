package tablefile

import "github.com/agentstation/vartable/pkg/constants"

// Options configures reading and writing.
type Options struct {
	format *Format
	sheet  string
	header bool
}

// Format returns the explicit format, if one was set.
func (o *Options) Format() (Format, bool) {
	if o.format == nil {
		return 0, false
	}
	return *o.format, true
}

// Sheet returns the XLSX sheet name.
func (o *Options) Sheet() string {
	return o.sheet
}

// Header reports whether a header row is written.
func (o *Options) Header() bool {
	return o.header
}

// Defaults returns the default options.
func Defaults() *Options {
	return &Options{
		sheet:  constants.XLSXSheetName,
		header: true,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures Options.
type Option func(*Options)

// WithFormat overrides the format implied by the file extension.
func WithFormat(f Format) Option {
	return func(o *Options) {
		o.format = &f
	}
}

// WithSheet sets the XLSX sheet to read or write. Reading defaults to the first sheet.
func WithSheet(name string) Option {
	return func(o *Options) {
		o.sheet = name
	}
}

// WithoutHeader omits the header row on write.
func WithoutHeader() Option {
	return func(o *Options) {
		o.header = false
	}
}
