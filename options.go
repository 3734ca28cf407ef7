package markupify

// pipelineOptions holds settings for ProcessMarkdown.
type pipelineOptions struct {
	MaxMessageLength int
	FileLineLimit    int
	Config           *RenderConfig
}

// Option configures ProcessMarkdown.
type Option func(*pipelineOptions)

// WithMaxMessageLength caps each Text chunk at n UTF-16 code units.
// The platform's limit, 4096, is the default.
func WithMaxMessageLength(n int) Option {
	return func(opts *pipelineOptions) {
		opts.MaxMessageLength = n
	}
}

// WithFileLineLimit sets the code-block size, in lines, beyond which a block
// is extracted as a File attachment instead of staying inline.
func WithFileLineLimit(n int) Option {
	return func(opts *pipelineOptions) {
		opts.FileLineLimit = n
	}
}

// WithConfig sets a custom RenderConfig for the conversion step.
func WithConfig(config *RenderConfig) Option {
	return func(opts *pipelineOptions) {
		opts.Config = config
	}
}

func defaultPipelineOptions() *pipelineOptions {
	return &pipelineOptions{
		MaxMessageLength: 4096,
		FileLineLimit:    50,
		Config:           DefaultConfig(),
	}
}

func applyOptions(opts ...Option) *pipelineOptions {
	options := defaultPipelineOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}
