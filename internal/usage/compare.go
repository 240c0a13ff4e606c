package usage

import (
	"context"
	"fmt"
	"math"

	"github.com/lachiem1/budgetcharts/internal/storage"
)

// Delta compares one kind's total in a period against the period before.
type Delta struct {
	Kind     storage.Kind
	Current  int64
	Previous int64
}

// Change is Current - Previous in cents.
func (d Delta) Change() int64 { return d.Current - d.Previous }

// Ratio is Current / Previous, NaN when there is nothing to compare with.
func (d Delta) Ratio() float64 {
	if d.Previous == 0 {
		return math.NaN()
	}
	return float64(d.Current) / float64(d.Previous)
}

// Comparison holds the income and outlay deltas for a period.
type Comparison struct {
	Period   Period
	Previous Period
	Income   Delta
	Outlay   Delta
}

// Net is income minus outlay in the current period.
func (c Comparison) Net() int64 { return c.Income.Current - c.Outlay.Current }

// Compare totals income and outlay for period and the period before it.
func Compare(ctx context.Context, ledger Ledger, period Period) (Comparison, error) {
	prev := period.Previous()
	type job struct {
		kind storage.Kind
		p    Period
	}
	jobs := []job{
		{storage.KindIncome, period},
		{storage.KindIncome, prev},
		{storage.KindOutlay, period},
		{storage.KindOutlay, prev},
	}
	sums, err := fetchAll(ctx, jobs, fetchWorkers, func(ctx context.Context, j job) (int64, error) {
		return total(ctx, ledger, j.kind, j.p)
	})
	if err != nil {
		return Comparison{}, fmt.Errorf("compare %s: %w", period.Label(), err)
	}
	return Comparison{
		Period:   period,
		Previous: prev,
		Income:   Delta{Kind: storage.KindIncome, Current: sums[0], Previous: sums[1]},
		Outlay:   Delta{Kind: storage.KindOutlay, Current: sums[2], Previous: sums[3]},
	}, nil
}

func total(ctx context.Context, ledger Ledger, kind storage.Kind, p Period) (int64, error) {
	totals, err := ledger.BucketTotals(ctx, kind, p.Start, p.End, storage.BucketMonth)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, t := range totals {
		sum += t.Cents
	}
	return sum, nil
}
