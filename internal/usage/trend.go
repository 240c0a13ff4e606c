package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lachiem1/budgetcharts/internal/storage"
	"github.com/shopspring/decimal"
)

// Ledger is the read side of the transaction store.
type Ledger interface {
	BucketTotals(ctx context.Context, kind storage.Kind, start, end time.Time, bucket storage.Bucket) ([]storage.BucketTotal, error)
	CategoryTotals(ctx context.Context, kind storage.Kind, start, end time.Time) ([]storage.CategoryTotal, error)
}

// DefaultComponents are the series of a trend chart, in legend order.
var DefaultComponents = []storage.Kind{storage.KindIncome, storage.KindOutlay}

const fetchWorkers = 4

func ComponentLabel(kind storage.Kind) string {
	switch kind {
	case storage.KindIncome:
		return "Income"
	case storage.KindOutlay:
		return "Outlay"
	default:
		return string(kind)
	}
}

// Dollars converts whole cents to a chart value.
func Dollars(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// Trend builds a clustered bar dataset with one cluster per bucket of the
// period and one series per component. Empty buckets are zero.
func Trend(ctx context.Context, ledger Ledger, period Period, components []storage.Kind) (*chart.BarDataset, error) {
	if len(components) == 0 {
		components = DefaultComponents
	}
	buckets := period.Buckets()

	totals, err := fetchAll(ctx, components, fetchWorkers, func(ctx context.Context, kind storage.Kind) ([]storage.BucketTotal, error) {
		return ledger.BucketTotals(ctx, kind, period.Start, period.End, period.BucketUnit())
	})
	if err != nil {
		return nil, fmt.Errorf("load %s trend: %w", period.Unit, err)
	}

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	series := make([]chart.BarSeries, len(components))
	for s, kind := range components {
		byKey := make(map[string]int64, len(totals[s]))
		for _, t := range totals[s] {
			byKey[t.Key] = t.Cents
		}
		values := make([]float64, len(buckets))
		for i, b := range buckets {
			values[i] = Dollars(byKey[b.Key])
		}
		series[s] = chart.BarSeries{Label: ComponentLabel(kind), Values: values}
	}

	ds, err := chart.NewBarDataset(labels, series)
	if err != nil {
		return nil, fmt.Errorf("build %s trend dataset: %w", period.Unit, err)
	}
	return ds, nil
}

// Breakdown builds a circle dataset of one kind's totals per root category,
// largest first.
func Breakdown(ctx context.Context, ledger Ledger, period Period, kind storage.Kind) (*chart.CircleDataset, error) {
	totals, err := ledger.CategoryTotals(ctx, kind, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("load %s breakdown: %w", kind, err)
	}
	slices := make([]chart.Slice, 0, len(totals))
	for _, t := range totals {
		if t.Cents <= 0 {
			continue
		}
		slices = append(slices, chart.Slice{Title: t.Category, Value: Dollars(t.Cents)})
	}
	return chart.NewCircleDataset(slices), nil
}
