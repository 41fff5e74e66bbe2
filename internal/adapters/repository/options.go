package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithHistory sets how many past run summaries are retained.
func WithHistory(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithMaxLimit caps the number of items a single query may return.
func WithMaxLimit(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}
