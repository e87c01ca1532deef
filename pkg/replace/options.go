package replace

// Options controls how rewritten files reach the archive.
type Options struct {
	Overwrite    bool // Allow rebuilt files to replace originals
	KeepRejected bool // Leave refused rebuilds on disk next to the original
	DryRun       bool // Log what would be written without touching the archive
}

// Defaults returns the default options: nothing is overwritten.
func Defaults() *Options {
	return &Options{
		Overwrite:    false,
		KeepRejected: false,
		DryRun:       false,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures replace Options.
type Option func(*Options)

// WithOverwrite sets whether rebuilt files may replace originals.
func WithOverwrite(enabled bool) Option {
	return func(o *Options) {
		o.Overwrite = enabled
	}
}

// WithKeepRejected sets whether refused rebuilds are kept on disk.
func WithKeepRejected(enabled bool) Option {
	return func(o *Options) {
		o.KeepRejected = enabled
	}
}

// WithDryRun sets dry-run mode.
func WithDryRun(enabled bool) Option {
	return func(o *Options) {
		o.DryRun = enabled
	}
}
