package pipeline

import "log/slog"

type Option func(p *Pipeline)

// WithLogger specifies the logger to be used by the pipeline, by
// default logs are discarded
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}
