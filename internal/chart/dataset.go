// Package chart turns numeric datasets into chart geometry: axis ranges,
// bar and arc placement, transitions between two layouts, and the drawable
// primitives a renderer paints. Everything here is a pure function of its
// inputs; the only mutable piece is Stage, which a single view owns.
package chart

import (
	"fmt"
	"math"
	"slices"
)

// BarSeries is one named row of a bar dataset, one value per cluster.
type BarSeries struct {
	Label  string
	Values []float64
}

// BarDataset holds grouped bar values. The table is indexed series first,
// then cluster.
type BarDataset struct {
	clusterLabels []string
	seriesLabels  []string
	table         [][]float64
}

func NewBarDataset(clusterLabels []string, series []BarSeries) (*BarDataset, error) {
	d := &BarDataset{
		clusterLabels: slices.Clone(clusterLabels),
		seriesLabels:  make([]string, 0, len(series)),
		table:         make([][]float64, 0, len(series)),
	}
	for i, s := range series {
		if len(s.Values) != len(clusterLabels) {
			return nil, fmt.Errorf(
				"new bar dataset: series %d (%q) has %d values for %d clusters: %w",
				i, s.Label, len(s.Values), len(clusterLabels), ErrShapeMismatch,
			)
		}
		d.seriesLabels = append(d.seriesLabels, s.Label)
		d.table = append(d.table, slices.Clone(s.Values))
	}
	return d, nil
}

// ThinLabels returns a copy of d with cluster labels blanked so the ones
// left do not overlap across width, given charWidth per label rune. d is
// returned unchanged when every label already fits.
func (d *BarDataset) ThinLabels(width, charWidth float64) *BarDataset {
	widest := 1
	for _, l := range d.clusterLabels {
		widest = max(widest, len([]rune(l)))
	}
	need := float64(len(d.clusterLabels)*(widest+1)) * charWidth
	step := int(math.Ceil(need / math.Max(width, 1)))
	if step <= 1 {
		return d
	}
	out := &BarDataset{
		clusterLabels: slices.Clone(d.clusterLabels),
		seriesLabels:  d.seriesLabels,
		table:         d.table,
	}
	for i := range out.clusterLabels {
		if i%step != 0 {
			out.clusterLabels[i] = ""
		}
	}
	return out
}

func (d *BarDataset) NumClusters() int { return len(d.clusterLabels) }

// GroupSize is the number of series, i.e. bars per cluster.
func (d *BarDataset) GroupSize() int { return len(d.table) }

func (d *BarDataset) Empty() bool {
	return d.NumClusters() == 0 || d.GroupSize() == 0
}

func (d *BarDataset) ClusterLabels() []string { return slices.Clone(d.clusterLabels) }

func (d *BarDataset) SeriesLabels() []string { return slices.Clone(d.seriesLabels) }

func (d *BarDataset) ClusterLabel(cluster int) string {
	checkIndex("cluster", cluster, d.NumClusters())
	return d.clusterLabels[cluster]
}

func (d *BarDataset) SeriesLabel(series int) string {
	checkIndex("series", series, d.GroupSize())
	return d.seriesLabels[series]
}

func (d *BarDataset) Value(series, cluster int) float64 {
	checkIndex("series", series, d.GroupSize())
	checkIndex("cluster", cluster, d.NumClusters())
	return d.table[series][cluster]
}

// SeriesValues returns every cluster's value for one series.
func (d *BarDataset) SeriesValues(series int) []float64 {
	checkIndex("series", series, d.GroupSize())
	return slices.Clone(d.table[series])
}

// ClusterValues returns every series' value at one cluster.
func (d *BarDataset) ClusterValues(cluster int) []float64 {
	checkIndex("cluster", cluster, d.NumClusters())
	out := make([]float64, d.GroupSize())
	for s := range d.table {
		out[s] = d.table[s][cluster]
	}
	return out
}

func (d *BarDataset) ClusterSum(cluster int) float64 {
	var sum float64
	for _, v := range d.ClusterValues(cluster) {
		sum += v
	}
	return sum
}

// Max is the largest cell in the table.
func (d *BarDataset) Max() (float64, error) {
	if d.Empty() {
		return 0, ErrEmptyDataset
	}
	m := math.Inf(-1)
	for _, row := range d.table {
		for _, v := range row {
			m = max(m, v)
		}
	}
	return m, nil
}

// MaxClusterSum is the tallest stack when series are stacked per cluster.
func (d *BarDataset) MaxClusterSum() (float64, error) {
	if d.Empty() {
		return 0, ErrEmptyDataset
	}
	m := math.Inf(-1)
	for c := range d.clusterLabels {
		m = max(m, d.ClusterSum(c))
	}
	return m, nil
}

// Slice is one named share of a circle chart.
type Slice struct {
	Title string
	Value float64
}

type CircleDataset struct {
	slices []Slice
	total  float64
}

func NewCircleDataset(s []Slice) *CircleDataset {
	d := &CircleDataset{slices: slices.Clone(s)}
	for _, sl := range d.slices {
		d.total += sl.Value
	}
	return d
}

func (d *CircleDataset) Len() int { return len(d.slices) }

func (d *CircleDataset) Slice(i int) Slice {
	checkIndex("slice", i, d.Len())
	return d.slices[i]
}

func (d *CircleDataset) Titles() []string {
	out := make([]string, len(d.slices))
	for i, s := range d.slices {
		out[i] = s.Title
	}
	return out
}

func (d *CircleDataset) Values() []float64 {
	out := make([]float64, len(d.slices))
	for i, s := range d.slices {
		out[i] = s.Value
	}
	return out
}

func (d *CircleDataset) Total() float64 { return d.total }

// Percentage is the slice's share of the total as a fraction in [0,1].
// It is NaN when the total is zero.
func (d *CircleDataset) Percentage(i int) float64 {
	checkIndex("slice", i, d.Len())
	if d.total == 0 {
		return math.NaN()
	}
	return d.slices[i].Value / d.total
}

func (d *CircleDataset) Percentages() []float64 {
	out := make([]float64, len(d.slices))
	for i := range d.slices {
		out[i] = d.Percentage(i)
	}
	return out
}
