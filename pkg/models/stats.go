package models

// PipelineStatistics holds the per-unit solver counters. Fresh counters come
// from solving in this run; cached counters come from incremental snapshot
// reuse. Statistics are summable component-wise to produce per-file and
// overall totals.
type PipelineStatistics struct {
	VerifiedCount     int `yaml:"verified"`
	ErrorCount        int `yaml:"errors"`
	InconclusiveCount int `yaml:"inconclusive"`
	TimeoutCount      int `yaml:"timeouts"`
	OutOfMemoryCount  int `yaml:"out_of_memory"`

	CachedVerifiedCount     int `yaml:"cached_verified,omitempty"`
	CachedErrorCount        int `yaml:"cached_errors,omitempty"`
	CachedInconclusiveCount int `yaml:"cached_inconclusive,omitempty"`
	CachedTimeoutCount      int `yaml:"cached_timeouts,omitempty"`
	CachedOutOfMemoryCount  int `yaml:"cached_out_of_memory,omitempty"`
}

// Add returns the component-wise sum of s and other.
func (s PipelineStatistics) Add(other PipelineStatistics) PipelineStatistics {
	return PipelineStatistics{
		VerifiedCount:     s.VerifiedCount + other.VerifiedCount,
		ErrorCount:        s.ErrorCount + other.ErrorCount,
		InconclusiveCount: s.InconclusiveCount + other.InconclusiveCount,
		TimeoutCount:      s.TimeoutCount + other.TimeoutCount,
		OutOfMemoryCount:  s.OutOfMemoryCount + other.OutOfMemoryCount,

		CachedVerifiedCount:     s.CachedVerifiedCount + other.CachedVerifiedCount,
		CachedErrorCount:        s.CachedErrorCount + other.CachedErrorCount,
		CachedInconclusiveCount: s.CachedInconclusiveCount + other.CachedInconclusiveCount,
		CachedTimeoutCount:      s.CachedTimeoutCount + other.CachedTimeoutCount,
		CachedOutOfMemoryCount:  s.CachedOutOfMemoryCount + other.CachedOutOfMemoryCount,
	}
}

// Clean reports whether no failure counter, fresh or cached, is nonzero.
// Each counter stays visible in the statistics even though any nonzero
// value contributes to the same negative verdict.
func (s PipelineStatistics) Clean() bool {
	return s.ErrorCount == 0 && s.InconclusiveCount == 0 &&
		s.TimeoutCount == 0 && s.OutOfMemoryCount == 0 &&
		s.CachedErrorCount == 0 && s.CachedInconclusiveCount == 0 &&
		s.CachedTimeoutCount == 0 && s.CachedOutOfMemoryCount == 0
}

// AsCached reclassifies fresh counters as cached ones. Used when a unit's
// result is replayed from the incremental cache instead of being re-solved.
func (s PipelineStatistics) AsCached() PipelineStatistics {
	return PipelineStatistics{
		CachedVerifiedCount:     s.VerifiedCount + s.CachedVerifiedCount,
		CachedErrorCount:        s.ErrorCount + s.CachedErrorCount,
		CachedInconclusiveCount: s.InconclusiveCount + s.CachedInconclusiveCount,
		CachedTimeoutCount:      s.TimeoutCount + s.CachedTimeoutCount,
		CachedOutOfMemoryCount:  s.OutOfMemoryCount + s.CachedOutOfMemoryCount,
	}
}
