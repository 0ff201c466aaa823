package nbody

import (
	"sync/atomic"
	"testing"
)

func TestForBlocks_CoversRangeOnce(t *testing.T) {
	tests := []struct {
		name                 string
		n, minChunk, workers int
	}{
		{"inline", 10, 16, 4},
		{"serial", 100, 1, 1},
		{"split", 1000, 7, 8},
		{"uneven", 1001, 100, 3},
		{"empty", 0, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			var blocks atomic.Int32
			ForBlocks(tt.n, tt.minChunk, tt.workers, func(lo, hi int) {
				blocks.Add(1)
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
			if tt.workers > 1 && tt.n > tt.minChunk && blocks.Load() < 2 {
				t.Errorf("expected the range to be split, got %d block", blocks.Load())
			}
		})
	}
}
