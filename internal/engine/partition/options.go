package partition

import "log/slog"

// Option configures a Store (and the Scheme that owns it).
type Option func(*Store)

// WithLogger sets the logger used for rebuilds and invariant reports.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInvariantChecks enables or disables the region list check that runs
// after every repair. Checks are enabled by default.
func WithInvariantChecks(enabled bool) Option {
	return func(s *Store) {
		s.checkInvariants = enabled
	}
}
