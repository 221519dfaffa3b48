package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/application"
	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
	"github.com/wyfcoding/montecarlo/pkg/config"
)

type simulateFlags struct {
	price   float64
	vol     float64
	days    int
	paths   int
	drift   float64
	seed    uint64
	workers int
	asJSON  bool
	plot    bool
}

func newSimulateCmd() *cobra.Command {
	var f simulateFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a single simulation and print the VaR summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runSimulate(ctx, cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().Float64Var(&f.price, "price", 100, "current price (S0)")
	cmd.Flags().Float64Var(&f.vol, "vol", 0.02, "daily volatility")
	cmd.Flags().IntVar(&f.days, "days", 30, "horizon in days")
	cmd.Flags().IntVar(&f.paths, "paths", 1000, "number of simulated paths")
	cmd.Flags().Float64Var(&f.drift, "drift", domain.DefaultExpectedReturn, "daily expected return")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "plot mean, p5 and p95 paths")
	return cmd
}

func runSimulate(ctx context.Context, out io.Writer, f simulateFlags) error {
	cfg := config.Default()

	sim := domain.NewPathSimulator(
		domain.WithWorkers(f.workers),
		domain.WithSourceFactory(domain.NewSeededSourceFactory(f.seed)),
	)
	svc := application.NewMonteCarloService(sim, nil, nil, application.Limits{
		MaxHorizonDays: cfg.Simulation.MaxHorizonDays,
		MaxMatrixCells: cfg.Simulation.MaxMatrixCells,
	}, f.drift)

	start := time.Now()
	res, err := svc.RunSimulation(ctx, application.SimulateCommand{
		InitialPrice: f.price,
		Volatility:   f.vol,
		HorizonDays:  f.days,
		NumPaths:     f.paths,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(out, renderSummary(res, elapsed))
	if f.plot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderChart(res))
	}
	return nil
}
