package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRatesRepo stores named tax rates ("gst" -> 0.1) applied when adding
// transactions.
type TaxRatesRepo struct {
	db *sql.DB
}

type TaxRate struct {
	Name string
	Rate decimal.Decimal
}

func NewTaxRatesRepo(db *sql.DB) *TaxRatesRepo {
	return &TaxRatesRepo{db: db}
}

func (r *TaxRatesRepo) Get(ctx context.Context, name string) (decimal.Decimal, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, "SELECT rate FROM tax_rates WHERE name = ?", normalizeRateName(name)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get tax rate %q: %w", name, err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse tax rate %q: %w", name, err)
	}
	return rate, true, nil
}

func (r *TaxRatesRepo) List(ctx context.Context) ([]TaxRate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name, rate FROM tax_rates ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query tax rates: %w", err)
	}
	defer rows.Close()

	var out []TaxRate
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse tax rate %q: %w", name, err)
		}
		out = append(out, TaxRate{Name: name, Rate: rate})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tax rate rows: %w", err)
	}
	return out, nil
}

func (r *TaxRatesRepo) UpsertMany(ctx context.Context, values map[string]decimal.Decimal) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tax rate upsert transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for name, rate := range values {
		key := normalizeRateName(name)
		if key == "" {
			return errors.New("tax rate name cannot be empty")
		}
		if rate.IsNegative() {
			return fmt.Errorf("upsert tax rate %q: %w", name, ErrInvalidRate)
		}
		if _, err = tx.ExecContext(
			ctx,
			`INSERT INTO tax_rates (name, rate, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
			key,
			rate.String(),
			now,
		); err != nil {
			return fmt.Errorf("upsert tax rate %q: %w", name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tax rate upsert transaction: %w", err)
	}
	return nil
}

func normalizeRateName(name string) string {
	return strings.ToLower(normalizeTransactionText(name))
}
