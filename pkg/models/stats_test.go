package models

import "testing"

func TestStatisticsAdd_ComponentWise(t *testing.T) {
	a := PipelineStatistics{VerifiedCount: 3, ErrorCount: 1, TimeoutCount: 2}
	b := PipelineStatistics{VerifiedCount: 2, InconclusiveCount: 4, CachedVerifiedCount: 5}

	sum := a.Add(b)

	if sum.VerifiedCount != 5 {
		t.Errorf("VerifiedCount = %d, want 5", sum.VerifiedCount)
	}
	if sum.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", sum.ErrorCount)
	}
	if sum.InconclusiveCount != 4 {
		t.Errorf("InconclusiveCount = %d, want 4", sum.InconclusiveCount)
	}
	if sum.TimeoutCount != 2 {
		t.Errorf("TimeoutCount = %d, want 2", sum.TimeoutCount)
	}
	if sum.CachedVerifiedCount != 5 {
		t.Errorf("CachedVerifiedCount = %d, want 5", sum.CachedVerifiedCount)
	}
}

func TestStatisticsClean(t *testing.T) {
	tests := []struct {
		name  string
		stats PipelineStatistics
		clean bool
	}{
		{"zero value", PipelineStatistics{}, true},
		{"only verified", PipelineStatistics{VerifiedCount: 10}, true},
		{"one error", PipelineStatistics{VerifiedCount: 10, ErrorCount: 1}, false},
		{"one inconclusive", PipelineStatistics{InconclusiveCount: 1}, false},
		{"one timeout", PipelineStatistics{TimeoutCount: 1}, false},
		{"one out of memory", PipelineStatistics{OutOfMemoryCount: 1}, false},
		{"cached error", PipelineStatistics{CachedErrorCount: 1}, false},
		{"cached timeout", PipelineStatistics{CachedTimeoutCount: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Clean(); got != tt.clean {
				t.Errorf("Clean() = %v, want %v", got, tt.clean)
			}
		})
	}
}

func TestStatisticsAsCached(t *testing.T) {
	fresh := PipelineStatistics{VerifiedCount: 4, ErrorCount: 2, TimeoutCount: 1}
	cached := fresh.AsCached()

	if cached.VerifiedCount != 0 || cached.ErrorCount != 0 || cached.TimeoutCount != 0 {
		t.Error("AsCached should zero all fresh counters")
	}
	if cached.CachedVerifiedCount != 4 {
		t.Errorf("CachedVerifiedCount = %d, want 4", cached.CachedVerifiedCount)
	}
	if cached.CachedErrorCount != 2 {
		t.Errorf("CachedErrorCount = %d, want 2", cached.CachedErrorCount)
	}
	if cached.CachedTimeoutCount != 1 {
		t.Errorf("CachedTimeoutCount = %d, want 1", cached.CachedTimeoutCount)
	}
	if fresh.Clean() == cached.Clean() && !fresh.Clean() {
		// A cached failure is still a failure.
		if cached.Clean() {
			t.Error("cached failure counters must keep the verdict negative")
		}
	}
}
