package chart

import (
	"errors"
	"slices"
	"testing"
)

func TestBarDatasetAccessors(t *testing.T) {
	t.Parallel()

	d := scenarioA(t)
	if d.NumClusters() != 2 || d.GroupSize() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", d.NumClusters(), d.GroupSize())
	}
	if got := d.ClusterValues(1); !slices.Equal(got, []float64{20, 30}) {
		t.Fatalf("ClusterValues(1) = %v, want [20 30]", got)
	}
	if got := d.SeriesValues(1); !slices.Equal(got, []float64{5, 30}) {
		t.Fatalf("SeriesValues(1) = %v, want [5 30]", got)
	}
	if got, err := d.Max(); err != nil || got != 30 {
		t.Fatalf("Max() = %v, %v, want 30", got, err)
	}
	if got, err := d.MaxClusterSum(); err != nil || got != 50 {
		t.Fatalf("MaxClusterSum() = %v, %v, want 50", got, err)
	}
	expectIndexPanic(t, "Value(2,0)", func() { d.Value(2, 0) })
}

func TestBarDatasetIsCopied(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2}
	d, err := NewBarDataset([]string{"a", "b"}, []BarSeries{{Label: "s", Values: values}})
	if err != nil {
		t.Fatalf("NewBarDataset() error = %v", err)
	}
	values[0] = 99
	if got := d.Value(0, 0); got != 1 {
		t.Fatalf("Value(0,0) = %v after caller mutation, want 1", got)
	}
}

func TestNewBarDatasetShapeMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewBarDataset([]string{"a", "b"}, []BarSeries{{Label: "s", Values: []float64{1}}})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("NewBarDataset() error = %v, want ErrShapeMismatch", err)
	}
}

func TestBarDatasetMaxEmpty(t *testing.T) {
	t.Parallel()

	d, err := NewBarDataset([]string{"a"}, nil)
	if err != nil {
		t.Fatalf("NewBarDataset() error = %v", err)
	}
	if _, err := d.Max(); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("Max() error = %v, want ErrEmptyDataset", err)
	}
}

func TestBarDatasetThinLabels(t *testing.T) {
	t.Parallel()

	labels := make([]string, 31)
	for i := range labels {
		labels[i] = "xx"
	}
	d, err := NewBarDataset(labels, []BarSeries{{Label: "s", Values: make([]float64, 31)}})
	if err != nil {
		t.Fatalf("NewBarDataset() error = %v", err)
	}

	got := d.ThinLabels(31, 1).ClusterLabels()
	if got[0] != "xx" || got[1] != "" || got[2] != "" || got[3] != "xx" {
		t.Fatalf("ThinLabels() = %v, want every third label", got)
	}
	if d.ClusterLabel(1) != "xx" {
		t.Fatal("ThinLabels() modified the receiver")
	}
	if d.ThinLabels(200, 1) != d {
		t.Fatal("ThinLabels() copied a dataset whose labels already fit")
	}
}
