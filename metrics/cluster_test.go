package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAdjustedRandScore(t *testing.T) {
	tests := []struct {
		name      string
		labelTrue []int
		labelPred []int
		want      float64
	}{
		{
			name:      "identical partitions",
			labelTrue: []int{0, 0, 1, 1},
			labelPred: []int{0, 0, 1, 1},
			want:      1,
		},
		{
			name:      "renamed labels",
			labelTrue: []int{0, 0, 1, 1},
			labelPred: []int{5, 5, -1, -1},
			want:      1,
		},
		{
			name:      "single cluster both sides",
			labelTrue: []int{3, 3, 3},
			labelPred: []int{0, 0, 0},
			want:      1,
		},
		{
			name:      "single sample",
			labelTrue: []int{0},
			labelPred: []int{-1},
			want:      1,
		},
		{
			name:      "every point its own cluster",
			labelTrue: []int{0, 1, 2},
			labelPred: []int{7, 8, 9},
			want:      1,
		},
		{
			// sklearn: adjusted_rand_score([0,0,1,1],[0,0,1,2]) = 0.5714...
			name:      "split cluster",
			labelTrue: []int{0, 0, 1, 1},
			labelPred: []int{0, 0, 1, 2},
			want:      4.0 / 7.0,
		},
		{
			// sklearn: adjusted_rand_score([0,0,1,1],[0,1,0,1]) = -0.5
			name:      "anti correlated",
			labelTrue: []int{0, 0, 1, 1},
			labelPred: []int{0, 1, 0, 1},
			want:      -0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustedRandScore(tt.labelTrue, tt.labelPred)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.IsNaN(got) || math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AdjustedRandScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustedRandScoreErrors(t *testing.T) {
	if _, err := AdjustedRandScore(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := AdjustedRandScore([]int{0, 1}, []int{0}); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestContingencyTable(t *testing.T) {
	table, classes, clusters, err := ContingencyTable(
		[]int{1, 1, 2, 2, 2},
		[]int{-1, 0, 0, 0, 0},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mat.NewDense(2, 2, []float64{
		1, 1,
		0, 3,
	})
	if !mat.Equal(table, want) {
		t.Errorf("table = %v, want %v", mat.Formatted(table), mat.Formatted(want))
	}
	if len(classes) != 2 || classes[0] != 1 || len(clusters) != 2 || clusters[0] != -1 {
		t.Errorf("unexpected label order: %v %v", classes, clusters)
	}
}

func TestNoiseRatio(t *testing.T) {
	if got := NoiseRatio([]int{0, -1, 1, -1}); got != 0.5 {
		t.Errorf("NoiseRatio() = %v, want 0.5", got)
	}
	if got := NoiseRatio(nil); got != 0 {
		t.Errorf("NoiseRatio(nil) = %v, want 0", got)
	}
}
