package recall

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		v1   map[int64]float64
		v2   map[int64]float64
		want float64
	}{
		{
			name: "identical vectors",
			v1:   map[int64]float64{1: 0.8, 2: 0.6},
			v2:   map[int64]float64{1: 0.8, 2: 0.6},
			want: 1.0,
		},
		{
			name: "no overlapping categories",
			v1:   map[int64]float64{1: 0.9},
			v2:   map[int64]float64{2: 0.9},
			want: 0.0,
		},
		{
			name: "both empty",
			v1:   map[int64]float64{},
			v2:   map[int64]float64{},
			want: 0.0,
		},
		{
			name: "one empty",
			v1:   map[int64]float64{1: 0.5},
			v2:   map[int64]float64{},
			want: 0.0,
		},
		{
			name: "zero scores in intersection",
			v1:   map[int64]float64{1: 0.0},
			v2:   map[int64]float64{1: 0.0},
			want: 0.0,
		},
		{
			name: "partial overlap uses intersection only",
			v1:   map[int64]float64{1: 1.0, 2: 1.0, 3: 0.5},
			v2:   map[int64]float64{2: 1.0, 4: 0.9},
			want: 1.0, // intersection is {2}, both 1.0
		},
		{
			name: "known value",
			v1:   map[int64]float64{1: 0.6, 2: 0.8},
			v2:   map[int64]float64{1: 0.8, 2: 0.6},
			want: 0.96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.v1, tt.v2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	v1 := map[int64]float64{1: 0.3, 2: 0.7, 5: 0.9}
	v2 := map[int64]float64{2: 0.4, 5: 0.1, 9: 0.8}
	if CosineSimilarity(v1, v2) != CosineSimilarity(v2, v1) {
		t.Error("similarity should be symmetric")
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	v1 := map[int64]float64{1: 0.2, 2: 0.9, 3: 0.4}
	v2 := map[int64]float64{1: 0.8, 2: 0.1, 3: 0.7}
	got := CosineSimilarity(v1, v2)
	if got < 0.0 || got > 1.0 {
		t.Errorf("similarity %v out of [0, 1]", got)
	}
}
