package analyzer

// BatchOption configures AnalyzeBatch.
type BatchOption func(*batchConfig)

type batchConfig struct {
	concurrency int
}

// WithConcurrency bounds the number of roles evaluated at once.
// Values <= 0 leave the batch unbounded.
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		c.concurrency = n
	}
}
