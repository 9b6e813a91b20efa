// Command kmeans runs the distributed k-means engine against a CSV
// dataset, or a synthetic one if no input file is given.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/clusterfabric/kmeans/dataio"
	"github.com/clusterfabric/kmeans/orchestrator"
	"github.com/clusterfabric/kmeans/point"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("kmeans", flag.ContinueOnError)

	input := fs.String("input", "", "input CSV path (omit to generate a synthetic dataset)")
	output := fs.String("output", "", "output CSV path (required)")
	numClusters := fs.Int("num-clusters", 5, "number of clusters (K)")
	numEpochs := fs.Int("num-epochs", 100, "maximum number of epochs")
	initMethod := fs.String("init-method", "random", "seeding method: random or furthest")
	tolerance := fs.Float64("tolerance", 1e-4, "convergence tolerance on |delta loss|")
	genNum := fs.Int("gen-num", 1000, "synthetic dataset: number of points")
	genDim := fs.Int("gen-dim", 2, "synthetic dataset: dimension")
	verbose := fs.Bool("verbose", false, "log per-epoch loss")
	workers := fs.Int("workers", 1, "number of workers (W)")
	threads := fs.Int("threads", 1, "assignment threads per worker (T)")
	trace := fs.String("trace", "", "optional path for a zstd-compressed per-epoch trace log")
	writeBytesPerSec := fs.Int64("write-bytes-per-sec", 0, "throttle output CSV writes to this many bytes/sec (0: unlimited)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *output == "" {
		fmt.Fprintln(os.Stderr, "kmeans: -output is required")
		return 2
	}

	ctx := context.Background()

	dataset, err := loadOrGenerate(*input, *genNum, *genDim, *numClusters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kmeans: %v\n", err)
		return 1
	}

	cfg := orchestrator.New(
		orchestrator.WithK(*numClusters),
		orchestrator.WithMaxEpochs(*numEpochs),
		orchestrator.WithInitMethod(*initMethod),
		orchestrator.WithTolerance(float32(*tolerance)),
		orchestrator.WithWorkers(*workers),
		orchestrator.WithThreads(*threads),
		orchestrator.WithVerbose(*verbose),
		orchestrator.WithTracePath(*trace),
		orchestrator.WithWriteBytesPerSec(*writeBytesPerSec),
	)

	report, err := orchestrator.Run(ctx, cfg, dataset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kmeans: %v\n", err)
		return 1
	}

	out, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kmeans: create output: %v\n", err)
		return 1
	}
	defer out.Close()

	sink := cfg.Controller().Writer(ctx, out)
	rows := report.MembershipSets.ToDense(len(dataset))
	if err := dataio.WritePoints(sink, dataset, rows); err != nil {
		fmt.Fprintf(os.Stderr, "kmeans: write output: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "kmeans: %d epochs, converged=%v, loss=%v\n", report.Epochs, report.Converged, report.FinalLoss)
	return 0
}

func loadOrGenerate(input string, genNum, genDim, numClusters int) ([]point.Point, error) {
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		pts, err := dataio.ReadPoints(f)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		return pts, nil
	}

	if genNum <= 0 || genDim <= 0 {
		return nil, errors.New("gen-num and gen-dim must be positive when -input is omitted")
	}
	gen := dataio.Generator{NumPoints: genNum, NumClusters: numClusters, Dim: genDim}
	return gen.Generate(), nil
}
