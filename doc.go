// Package denstream provides streaming density clustering for Go,
// designed for services that see an unbounded stream of feature vectors.
//
// Points are absorbed one at a time into fading micro-clusters (DenStream).
// Each micro-cluster keeps a decaying weight, linear sum and squared sum, so
// old data fades with 2^(-lambda*dt). On request a weighted DBSCAN pass over
// the potential micro-clusters produces final cluster labels for every
// absorbed point.
//
// # Features
//
// - scikit-learn-like API: PartialFit, Fit, Predict, FitPredict and FitStream
// - Deterministic: the same stream always yields the same labels
// - Structured errors and zerolog logging
// - gob checkpoints that resume exactly where the stream stopped
//
// # Installation
//
//	go get github.com/YuminosukeSato/denstream
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/denstream/sklearn/cluster"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    est, err := cluster.NewDenStream(2,
//	        cluster.WithEpsilon(0.5),
//	        cluster.WithInitPoints(0),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    X := mat.NewDense(3, 2, []float64{0, 0, 0.1, 0.1, 10, 10})
//	    labels, err := est.FitPredict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(labels) // [0 0 -1]
//	}
//
// # Packages
//
//   - sklearn/cluster: the DenStream estimator
//   - core/microcluster: decaying cluster features and their store
//   - core/denstream: the online update engine (absorption, initialization, pruning)
//   - core/dbscan: the offline weighted DBSCAN pass
//   - core/model: estimator interfaces and gob persistence
//   - core/parallel: parallel processing utilities
//   - preprocessing: feature scalers
//   - metrics: clustering metrics (adjusted Rand index, noise ratio)
//   - pkg/viz: scatter plots of clustering results
//   - pkg/errors, pkg/log: error and logging infrastructure
//
// The denstream command in cmd/denstream runs the estimator over CSV files.
//
// # License
//
// Released under the MIT License.
package denstream
