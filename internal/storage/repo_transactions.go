package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Kind string

const (
	KindIncome Kind = "income"
	KindOutlay Kind = "outlay"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindIncome:
		return KindIncome, nil
	case KindOutlay, "expense":
		return KindOutlay, nil
	default:
		return "", fmt.Errorf("parse kind %q: want income or outlay", raw)
	}
}

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidRate   = errors.New("tax rate must not be negative")
)

// Bucket is the time granularity of aggregated totals.
type Bucket int

const (
	BucketDay Bucket = iota
	BucketMonth
)

// keyLen is how much of occurred_on identifies a bucket.
func (b Bucket) keyLen() int {
	if b == BucketMonth {
		return len("2006-01")
	}
	return len(dateLayout)
}

type Transaction struct {
	ID              string
	OccurredOn      time.Time
	Kind            Kind
	Category        string
	CategoryRoot    string
	Description     string
	Amount          decimal.Decimal
	AmountBaseUnits int64
	TaxRate         decimal.Decimal
	CreatedAt       time.Time
}

type NewTransaction struct {
	OccurredOn  time.Time
	Kind        Kind
	Category    string
	Description string
	Amount      decimal.Decimal
	TaxRate     decimal.Decimal
}

type BucketTotal struct {
	Key   string
	Cents int64
}

type CategoryTotal struct {
	Category string
	Cents    int64
}

type TransactionsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewTransactionsRepo(db *sql.DB) *TransactionsRepo {
	return &TransactionsRepo{db: db, now: time.Now}
}

// ParseAmount accepts "1234.5", "$1,234.50" and similar user input.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, ErrInvalidAmount)
	}
	return d, nil
}

// ApplyTax grosses amount up by rate and rounds down to whole cents.
func ApplyTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rate)).RoundFloor(2)
}

func (r *TransactionsRepo) Add(ctx context.Context, in NewTransaction) (Transaction, error) {
	if in.Kind != KindIncome && in.Kind != KindOutlay {
		return Transaction{}, fmt.Errorf("add transaction: unknown kind %q", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return Transaction{}, fmt.Errorf("add transaction: %w", ErrInvalidAmount)
	}
	if in.TaxRate.IsNegative() {
		return Transaction{}, fmt.Errorf("add transaction: %w", ErrInvalidRate)
	}
	if in.OccurredOn.IsZero() {
		in.OccurredOn = r.now()
	}

	taxed := ApplyTax(in.Amount, in.TaxRate)
	category := normalizeCategory(in.Category)
	t := Transaction{
		ID:              uuid.NewString(),
		OccurredOn:      dateOnly(in.OccurredOn),
		Kind:            in.Kind,
		Category:        category,
		CategoryRoot:    categoryRoot(category),
		Description:     normalizeTransactionText(in.Description),
		Amount:          taxed,
		AmountBaseUnits: taxed.Shift(2).IntPart(),
		TaxRate:         in.TaxRate,
		CreatedAt:       r.now().UTC(),
	}

	if _, err := r.db.ExecContext(
		ctx,
		`INSERT INTO transactions (
		   id, occurred_on, kind, category, category_root, description,
		   amount_value, amount_value_in_base_units, tax_rate, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.OccurredOn.Format(dateLayout),
		string(t.Kind),
		t.Category,
		t.CategoryRoot,
		t.Description,
		t.Amount.StringFixed(2),
		t.AmountBaseUnits,
		t.TaxRate.String(),
		t.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionsRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("delete transaction %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete transaction %q: %w", id, err)
	}
	return n > 0, nil
}

func (r *TransactionsRepo) HasAny(ctx context.Context) (bool, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM transactions)").Scan(&exists); err != nil {
		return false, fmt.Errorf("check transactions existence: %w", err)
	}
	return exists == 1, nil
}

// List returns transactions with start <= occurred_on < end, oldest first.
func (r *TransactionsRepo) List(ctx context.Context, start, end time.Time) ([]Transaction, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, occurred_on, kind, category, category_root, description,
		        amount_value, amount_value_in_base_units, tax_rate, created_at
		 FROM transactions
		 WHERE occurred_on >= ? AND occurred_on < ?
		 ORDER BY occurred_on, created_at`,
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			t                                 Transaction
			occurredOn, kind, amount, taxRate string
			createdAt                         string
		)
		if err := rows.Scan(
			&t.ID, &occurredOn, &kind, &t.Category, &t.CategoryRoot, &t.Description,
			&amount, &t.AmountBaseUnits, &taxRate, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.Kind = Kind(kind)
		if t.OccurredOn, err = time.ParseInLocation(dateLayout, occurredOn, time.Local); err != nil {
			return nil, fmt.Errorf("parse transaction %s date: %w", t.ID, err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse transaction %s amount: %w", t.ID, err)
		}
		if t.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
			return nil, fmt.Errorf("parse transaction %s tax rate: %w", t.ID, err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse transaction %s created_at: %w", t.ID, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transaction rows: %w", err)
	}
	return out, nil
}

// BucketTotals sums one kind per day or month within [start, end). Buckets
// without transactions are absent.
func (r *TransactionsRepo) BucketTotals(
	ctx context.Context,
	kind Kind,
	start time.Time,
	end time.Time,
	bucket Bucket,
) ([]BucketTotal, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT substr(occurred_on, 1, ?) AS bucket, SUM(amount_value_in_base_units)
		 FROM transactions
		 WHERE kind = ? AND occurred_on >= ? AND occurred_on < ?
		 GROUP BY bucket
		 ORDER BY bucket`,
		bucket.keyLen(),
		string(kind),
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s bucket totals: %w", kind, err)
	}
	defer rows.Close()

	var out []BucketTotal
	for rows.Next() {
		var b BucketTotal
		if err := rows.Scan(&b.Key, &b.Cents); err != nil {
			return nil, fmt.Errorf("scan bucket total: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read bucket total rows: %w", err)
	}
	return out, nil
}

// CategoryTotals sums one kind per root category within [start, end),
// largest first.
func (r *TransactionsRepo) CategoryTotals(ctx context.Context, kind Kind, start, end time.Time) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT category_root, SUM(amount_value_in_base_units) AS total
		 FROM transactions
		 WHERE kind = ? AND occurred_on >= ? AND occurred_on < ?
		 GROUP BY category_root
		 ORDER BY total DESC, category_root`,
		string(kind),
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s category totals: %w", kind, err)
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read category total rows: %w", err)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
