package sph

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolCoversEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		n       int
	}{
		{"inline single worker", 1, 1000},
		{"inline below threshold", 4, 10},
		{"fewer items than workers", 8, 5},
		{"threshold", 3, 64},
		{"parallel", 8, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newWorkerPool(tt.workers)
			defer p.stop()

			counts := make([]atomic.Int32, tt.n)
			// Run twice to exercise reuse of the started pool.
			for round := 0; round < 2; round++ {
				p.run(tt.n, func(s stride) {
					for i := s.first; i < tt.n; i += s.step {
						counts[i].Add(1)
					}
				})
			}

			for i := range counts {
				if got := counts[i].Load(); got != 2 {
					t.Errorf("index %d visited %d times, want 2", i, got)
				}
			}
		})
	}
}

func TestWorkerPoolStopIdempotent(t *testing.T) {
	p := newWorkerPool(2)
	p.run(128, func(stride) {})
	p.stop()
	p.stop()
	if p.running {
		t.Error("expected pool to be stopped")
	}
}
