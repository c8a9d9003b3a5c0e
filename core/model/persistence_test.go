package model

import (
	"bytes"
	"path/filepath"
	"testing"
)

type sampleState struct {
	Clock   int64
	Weights []float64
	Kinds   map[uint64]int
}

func TestSaveLoadWriterRoundTrip(t *testing.T) {
	in := sampleState{Clock: 4, Weights: []float64{1, 0.5}, Kinds: map[uint64]int{1: 0, 2: 1}}

	var buf bytes.Buffer
	if err := SaveModelToWriter(in, &buf); err != nil {
		t.Fatalf("SaveModelToWriter: %v", err)
	}

	var out sampleState
	if err := LoadModelFromReader(&out, &buf); err != nil {
		t.Fatalf("LoadModelFromReader: %v", err)
	}
	if out.Clock != 4 || len(out.Weights) != 2 || out.Kinds[2] != 1 {
		t.Errorf("unexpected state %+v", out)
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.gob")
	if err := SaveModel(sampleState{Clock: 9}, path); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	var out sampleState
	if err := LoadModel(&out, path); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if out.Clock != 9 {
		t.Errorf("Clock = %d", out.Clock)
	}

	if err := LoadModel(&out, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBaseEstimatorState(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() || e.State() != NotFitted {
		t.Fatal("zero value should be not fitted")
	}
	e.SetFitted()
	if !e.IsFitted() || e.State().String() != "fitted" {
		t.Error("expected fitted")
	}
	e.Reset()
	if e.IsFitted() {
		t.Error("expected reset")
	}
}
