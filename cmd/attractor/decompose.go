package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/attractor"
	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/graph"
	"github.com/hupe1980/attractor/prom"
	"github.com/hupe1980/attractor/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDecomposeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decompose MODEL",
		Short: "Find the terminal components of a model file",
		Long: `Load a YAML model, decompose it into terminal components and print a summary.

Components are written as JSON lines to --output when set; a ".zst" or ".lz4"
extension compresses the report. --metrics.textfile writes Prometheus metrics
in the node exporter textfile format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(cmd, v, args[0])
		},
	}

	cmd.Flags().IntP("workers", "w", 0, "worker goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringP("output", "o", "", "write components to this file")
	cmd.Flags().String("metrics.textfile", "", "write Prometheus metrics to this file")
	_ = v.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("metrics.textfile", cmd.Flags().Lookup("metrics.textfile"))
	return cmd
}

func runDecompose(cmd *cobra.Command, v *viper.Viper, path string) (err error) {
	logger, err := newLogger(cmd, v)
	if err != nil {
		return err
	}

	m, err := graph.LoadFile(path)
	if err != nil {
		return err
	}

	opts := []attractor.Option{
		attractor.WithWorkers(v.GetInt("workers")),
		attractor.WithLogger(logger),
	}

	var reg *prometheus.Registry
	if v.GetString("metrics.textfile") != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, attractor.WithMetricsCollector(prom.NewCollector(reg)))
	}

	var out *report.Writer
	if output := v.GetString("output"); output != "" {
		out, err = report.Create(output, m.Domain)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write report: %w", cerr)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	components := 0
	covered := roaring.New()
	start := time.Now()
	err = attractor.FindComponents(ctx, m, func(c *attractor.StateMap[color.Params]) {
		components++
		covered.Or(c.Members())
		if out != nil {
			out.Add(c)
		}
	}, opts...)
	if err != nil {
		return fmt.Errorf("decomposition failed: %w", err)
	}
	elapsed := time.Since(start)

	if reg != nil {
		if err := prometheus.WriteToTextfile(v.GetString("metrics.textfile"), reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "states:     %d\n", m.StateCount())
	fmt.Fprintf(w, "edges:      %d\n", m.EdgeCount())
	fmt.Fprintf(w, "components: %d\n", components)
	fmt.Fprintf(w, "covered:    %d\n", covered.GetCardinality())
	fmt.Fprintf(w, "elapsed:    %s\n", elapsed.Round(time.Millisecond))
	return nil
}
