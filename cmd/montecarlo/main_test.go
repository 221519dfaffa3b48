package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wyfcoding/montecarlo/internal/montecarlo/domain"
)

func TestRunSimulate_JSON(t *testing.T) {
	var out bytes.Buffer
	f := simulateFlags{price: 100, vol: 0.02, days: 20, paths: 200, drift: domain.DefaultExpectedReturn, seed: 3, asJSON: true}
	if err := runSimulate(context.Background(), &out, f); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var res domain.SimulationResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not a result: %v", err)
	}
	if res.NumPaths != 200 || len(res.MeanPath) != 21 {
		t.Errorf("unexpected result: N=%d len(mean)=%d", res.NumPaths, len(res.MeanPath))
	}
}

func TestRunSimulate_SummaryAndPlot(t *testing.T) {
	var out bytes.Buffer
	f := simulateFlags{price: 100, vol: 0.02, days: 20, paths: 200, drift: domain.DefaultExpectedReturn, seed: 3, plot: true}
	if err := runSimulate(context.Background(), &out, f); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	for _, want := range []string{"VaR loss", "VaR price (p5)", "p95 (green) / mean / p5 (red)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunSimulate_InvalidInput(t *testing.T) {
	f := simulateFlags{price: 100, vol: 0.02, days: 20, paths: 5001, drift: domain.DefaultExpectedReturn}
	if err := runSimulate(context.Background(), &bytes.Buffer{}, f); err == nil {
		t.Error("expected error for too many paths")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "montecarlo ") {
		t.Errorf("unexpected version output %q", out.String())
	}
}
