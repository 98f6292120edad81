package repository

// ReadinessOption configures a ReadinessIndex.
type ReadinessOption func(*ReadinessIndex)

// WithSeed fixes the seed of the treap priorities.
func WithSeed(seed uint64) ReadinessOption {
	return func(r *ReadinessIndex) {
		r.seed = seed
	}
}

// ResultOption configures a MemoryResultStore.
type ResultOption func(*MemoryResultStore)

// WithCapacity bounds the number of records kept; the oldest is evicted first.
// capacity <= 0 disables eviction.
func WithCapacity(capacity int) ResultOption {
	return func(s *MemoryResultStore) {
		s.capacity = capacity
	}
}
