package model

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Batch represents a data batch for streaming learning.
// Y is unused by clustering estimators and may be nil.
type Batch struct {
	X mat.Matrix // Feature matrix
	Y mat.Matrix // Target matrix
}

// StreamingClusterer provides channel-based streaming learning interface
type StreamingClusterer interface {
	IncrementalClusterer

	// FitStream absorbs batches until the context is canceled or the channel is closed
	FitStream(ctx context.Context, dataChan <-chan *Batch) error
}

// StreamingMetrics provides counters during streaming learning
type StreamingMetrics interface {
	// GetProcessedSamples returns total number of processed samples
	GetProcessedSamples() int64
}
