// Package log defines standard attribute keys for stream clustering operations.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples",
// "stream.clock") so log analysis can filter by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator, e.g. "DenStream".
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific estimator instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "partial_fit", "predict", "fit_predict"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing the operation.
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in a batch.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// SampleIndexKey is the stream position of a single sample.
	SampleIndexKey = "data.sample_index"

	// BatchSizeKey indicates the size of processing batches.
	BatchSizeKey = "data.batch_size"
)

// Stream state
const (
	// ClockKey is the engine clock in time units.
	ClockKey = "stream.clock"

	// ProcessedKey is the total number of processed points.
	ProcessedKey = "stream.processed"

	// MicroClustersKey is the number of live micro-clusters.
	MicroClustersKey = "stream.micro_clusters"

	// PotentialKey is the number of potential micro-clusters.
	PotentialKey = "stream.potential"

	// OutlierKey is the number of outlier micro-clusters.
	OutlierKey = "stream.outlier"

	// PrunedKey is the number of micro-clusters removed by a pruning pass.
	PrunedKey = "stream.pruned"

	// DemotedKey is the number of potential micro-clusters demoted by a pruning pass.
	DemotedKey = "stream.demoted"

	// PruningPeriodKey is the pruning period in time units.
	PruningPeriodKey = "stream.pruning_period"
)

// Offline pass
const (
	// ClustersKey is the number of final clusters found by the offline pass.
	ClustersKey = "offline.clusters"

	// NoiseKey is the number of micro-clusters labelled noise.
	NoiseKey = "offline.noise"

	// RadiusKey is the neighbourhood radius used by the offline pass.
	RadiusKey = "offline.radius"
)

// Performance and Error Context
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// HyperParamsKey contains estimator hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"
)

// Standard attribute values.
const (
	OperationFit        = "fit"
	OperationPartialFit = "partial_fit"
	OperationPredict    = "predict"
	OperationFitPredict = "fit_predict"

	ErrorNotInitialized    = "NOT_INITIALIZED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorConfiguration     = "CONFIGURATION"
	ErrorInvalidInput      = "INVALID_INPUT"
)
