// Package testutil provides shared test infrastructure for the compartment
// simulator. It consolidates golden dataset types and assertion helpers used
// across sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase represents a single reference trajectory.
type GoldenTestCase struct {
	Name          string            `json:"name"`
	Label         string            `json:"label"`
	Population    []float64         `json:"population"`
	Horizon       int               `json:"horizon"`
	Transitions   GoldenTransitions `json:"transitions"`
	HaltReason    string            `json:"halt_reason"`
	DaysSimulated int               `json:"days_simulated"`
	History       [][]float64       `json:"history"`
}

// GoldenTransitions mirrors the transition tunables by their config names.
type GoldenTransitions struct {
	ExposureRate           float64 `json:"exposure_rate"`
	ExposureProportion     float64 `json:"exposure_proportion"`
	IncubationRate         float64 `json:"incubation_rate"`
	SymptomSplitRate       float64 `json:"symptom_split_rate"`
	AsymptomaticProportion float64 `json:"asymptomatic_proportion"`
	OutcomeRate            float64 `json:"outcome_rate"`
	DeathProportion        float64 `json:"death_proportion"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Close is AssertFloat64Equal with an absolute floor, for values
// that may sit at or near zero after cancellation.
func AssertFloat64Close(t *testing.T, name string, want, got, relTol, absTol float64) {
	t.Helper()
	diff := math.Abs(want - got)
	if diff <= absTol {
		return
	}
	AssertFloat64Equal(t, name, want, got, relTol)
}
