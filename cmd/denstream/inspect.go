package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/denstream/sklearn/cluster"
)

func newInspectCmd() *cobra.Command {
	var (
		checkpoint string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the state stored in a checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := cluster.LoadDenStreamFile(checkpoint)
			if err != nil {
				return err
			}
			if jsonOutput {
				return inspectJSON(cmd.OutOrStdout(), est)
			}
			return inspectText(cmd.OutOrStdout(), est)
		},
	}
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "Checkpoint file written by fit --checkpoint")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("checkpoint")
	return cmd
}

func inspectText(w io.Writer, est *cluster.DenStream) error {
	st := est.Stats()
	cfg := est.Config()

	fmt.Fprintf(w, "estimator:   %s\n", est.ID())
	fmt.Fprintf(w, "dimensions:  %d\n", cfg.Dimensions)
	fmt.Fprintf(w, "clock:       %d (pruning every %d, last at %d)\n", st.Clock, st.PruningPeriod, st.LastPrune)
	fmt.Fprintf(w, "processed:   %d (buffered %d, initialized %t)\n", st.Processed, st.Buffered, st.Initialized)
	fmt.Fprintf(w, "micro:       %d potential, %d outlier, total weight %.3f\n", st.Potential, st.Outlier, st.TotalWeight)
	fmt.Fprintf(w, "counters:    merged %d, created %d, promoted %d, demoted %d, pruned %d\n\n",
		st.Merged, st.Created, st.Promoted, st.Demoted, st.Pruned)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tWEIGHT\tRADIUS\tPOINTS\tCENTER")
	for _, mc := range est.MicroClusters() {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.4f\t%d\t%v\n", mc.ID, mc.Kind, mc.Weight, mc.Radius, mc.Points, mc.Center)
	}
	return tw.Flush()
}

type inspectReport struct {
	ID            string         `json:"id"`
	Params        map[string]any `json:"params"`
	Stats         any            `json:"stats"`
	MicroClusters []microJSON    `json:"micro_clusters"`
}

type microJSON struct {
	ID     uint64    `json:"id"`
	Kind   string    `json:"kind"`
	Weight float64   `json:"weight"`
	Radius float64   `json:"radius"`
	Points int       `json:"points"`
	Center []float64 `json:"center"`
}

func inspectJSON(w io.Writer, est *cluster.DenStream) error {
	report := inspectReport{
		ID:     est.ID(),
		Params: est.GetParams(),
		Stats:  est.Stats(),
	}
	for _, mc := range est.MicroClusters() {
		report.MicroClusters = append(report.MicroClusters, microJSON{
			ID:     mc.ID,
			Kind:   mc.Kind.String(),
			Weight: mc.Weight,
			Radius: mc.Radius,
			Points: mc.Points,
			Center: mc.Center,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
