package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/core/model"
	"github.com/YuminosukeSato/denstream/metrics"
	"github.com/YuminosukeSato/denstream/pkg/errors"
	"github.com/YuminosukeSato/denstream/pkg/log"
	"github.com/YuminosukeSato/denstream/pkg/viz"
	"github.com/YuminosukeSato/denstream/preprocessing"
	"github.com/YuminosukeSato/denstream/sklearn/cluster"
)

type fitOptions struct {
	input       string
	config      string
	output      string
	plot        string
	scale       string
	checkpoint  string
	resume      string
	batch       int
	truthColumn bool
}

func newFitCmd() *cobra.Command {
	opts := &fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Stream CSV points through DenStream and write labels",
		Long: `Reads numeric CSV rows, streams them through a DenStream estimator in
batches, runs the offline pass and writes one label per input row (-1 is noise).

Hyperparameters come from DENSTREAM_* environment variables and an optional
config file (yaml, toml or json) with keys window_range, epsilon, beta, mu,
init_points, offline_multiplier, lambda and processing_speed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "-", "Input CSV file (- for stdin)")
	f.StringVarP(&opts.config, "config", "c", "", "Config file")
	f.StringVarP(&opts.output, "output", "o", "-", "Output labels file (- for stdout)")
	f.StringVar(&opts.plot, "plot", "", "Render a scatter plot of the first two dimensions to this file")
	f.StringVar(&opts.scale, "scale", "none", "Feature scaling: none, minmax, standard (not allowed with --resume)")
	f.StringVar(&opts.checkpoint, "checkpoint", "", "Save the estimator state to this file")
	f.StringVar(&opts.resume, "resume", "", "Resume from a saved estimator state")
	f.IntVar(&opts.batch, "batch", 100, "Rows per streamed batch")
	f.BoolVar(&opts.truthColumn, "truth-column", false, "Last column is a ground truth label; report the adjusted Rand index")
	return cmd
}

func runFit(ctx context.Context, stdout, stderr io.Writer, opts *fitOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.batch <= 0 {
		return errors.NewConfigurationError("batch", "must be positive", opts.batch)
	}
	scaler, err := preprocessing.NewScaler(opts.scale)
	if err != nil {
		return err
	}
	// 再開時はチェックポイントの座標系をそのまま使う
	if scaler != nil && opts.resume != "" {
		return errors.NewConfigurationError("scale", "cannot be combined with --resume", opts.scale)
	}
	logger := log.GetLoggerWithName("cmd.fit")

	points, truth, err := readInput(opts.input, opts.truthColumn)
	if err != nil {
		return err
	}
	dims := len(points[0])

	X := mat.NewDense(len(points), dims, nil)
	for i, p := range points {
		X.SetRow(i, p)
	}
	var data mat.Matrix = X
	if scaler != nil {
		if data, err = scaler.FitTransform(X); err != nil {
			return err
		}
	}

	est, err := newEstimator(opts, dims)
	if err != nil {
		return err
	}
	before := est.GetProcessedSamples()

	if err := streamBatches(ctx, est, data, opts.batch); err != nil {
		return err
	}

	all, err := est.Predict()
	if err != nil {
		return err
	}
	labels := all[before:]

	if err := writeOutput(opts.output, stdout, labels); err != nil {
		return err
	}

	if opts.plot != "" {
		vopts := viz.DefaultOptions()
		vopts.MicroClusters = potentialOnly(est.MicroClusters())
		rows, _ := data.Dims()
		plotted := make([][]float64, rows)
		for i := range plotted {
			plotted[i] = mat.Row(nil, i, data)
		}
		if dims < 2 {
			for i := range plotted {
				plotted[i] = append(plotted[i], 0)
			}
		}
		if err := viz.ScatterClusters(plotted, labels, opts.plot, vopts); err != nil {
			return err
		}
	}

	if opts.checkpoint != "" {
		if err := est.SaveFile(opts.checkpoint); err != nil {
			return err
		}
	}

	st := est.Stats()
	fmt.Fprintf(stderr, "points=%d clusters=%d micro_clusters=%d (potential=%d outlier=%d) noise_ratio=%.3f\n",
		len(labels), est.NClusters(), st.Potential+st.Outlier, st.Potential, st.Outlier, metrics.NoiseRatio(labels))

	if opts.truthColumn {
		ari, err := metrics.AdjustedRandScore(truth, labels)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "adjusted_rand_index=%.4f\n", ari)
		logger.Info("Evaluated against ground truth", "ari", ari, log.SamplesKey, len(labels))
	}
	return nil
}

func newEstimator(opts *fitOptions, dims int) (*cluster.DenStream, error) {
	if opts.resume != "" {
		est, err := cluster.LoadDenStreamFile(opts.resume)
		if err != nil {
			return nil, err
		}
		if got := est.Config().Dimensions; got != dims {
			return nil, errors.NewDimensionError("resume", got, dims, 1)
		}
		return est, nil
	}
	cfg, err := loadConfig(opts.config, dims)
	if err != nil {
		return nil, err
	}
	return cluster.NewDenStreamFromConfig(cfg)
}

// streamBatches feeds data to the estimator through FitStream in row batches.
func streamBatches(ctx context.Context, est *cluster.DenStream, data mat.Matrix, batch int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dense := mat.DenseCopyOf(data)
	ch := make(chan *model.Batch)
	go func() {
		defer close(ch)
		rows, cols := dense.Dims()
		for start := 0; start < rows; start += batch {
			end := min(start+batch, rows)
			b := &model.Batch{X: mat.DenseCopyOf(dense.Slice(start, end, 0, cols))}
			select {
			case ch <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	return est.FitStream(ctx, ch)
}

func potentialOnly(snap []microcluster.Snapshot) []microcluster.Snapshot {
	out := snap[:0]
	for _, s := range snap {
		if s.Kind == microcluster.Potential {
			out = append(out, s)
		}
	}
	return out
}

func readInput(path string, truthColumn bool) ([][]float64, []int, error) {
	if path == "" || path == "-" {
		return readPoints(os.Stdin, truthColumn)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return readPoints(f, truthColumn)
}

func writeOutput(path string, stdout io.Writer, labels []int) error {
	if path == "" || path == "-" {
		return writeLabels(stdout, labels)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := writeLabels(f, labels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
