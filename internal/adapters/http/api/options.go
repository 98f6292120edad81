package api

import "golang.org/x/time/rate"

const (
	defaultMaxSkills         = 500
	defaultMaxBatchRoles     = 20
	defaultMaxReadinessLimit = 100
	defaultReadinessLimit    = 10
	maxBodyBytes             = 1 << 20
)

// Option configures the Server.
type Option func(*Server)

// WithMaxSkills caps the number of skills accepted in one request.
func WithMaxSkills(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSkills = n
		}
	}
}

// WithMaxBatchRoles caps the number of roles in POST /analyze/batch.
func WithMaxBatchRoles(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBatchRoles = n
		}
	}
}

// WithMaxReadinessLimit caps GET /readiness?limit.
func WithMaxReadinessLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxReadinessLimit = n
		}
	}
}

// WithRateLimit throttles the analysis endpoints to rps requests per second
// with the given burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
