package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenWith(context.Background(), Config{
		Mode: ModePlain,
		Path: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if err != nil {
		t.Fatalf("OpenWith() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func mustAdd(t *testing.T, repo *TransactionsRepo, in NewTransaction) Transaction {
	t.Helper()
	tx, err := repo.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	return tx
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("runMigrations() second run: %v", err)
	}
	var version int
	if err := db.QueryRow("SELECT version FROM schema_migrations WHERE id = 1").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("schema version = %d, want %d", version, schemaVersion)
	}
}

func TestTransactionsRepoAddAppliesTax(t *testing.T) {
	t.Parallel()

	repo := NewTransactionsRepo(openTestDB(t))
	got := mustAdd(t, repo, NewTransaction{
		OccurredOn:  day(2024, time.March, 5),
		Kind:        KindOutlay,
		Category:    "  food /  groceries ",
		Description: "weekly   shop",
		Amount:      decimal.RequireFromString("10.99"),
		TaxRate:     decimal.RequireFromString("0.1"),
	})

	if got.AmountBaseUnits != 1208 {
		t.Fatalf("AmountBaseUnits = %d, want 1208", got.AmountBaseUnits)
	}
	if got.Category != "food/groceries" || got.CategoryRoot != "food" {
		t.Fatalf("category = %q root %q, want food/groceries root food", got.Category, got.CategoryRoot)
	}
	if got.Description != "weekly shop" {
		t.Fatalf("Description = %q, want %q", got.Description, "weekly shop")
	}

	list, err := repo.List(context.Background(), day(2024, time.March, 1), day(2024, time.April, 1))
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != got.ID || !list[0].Amount.Equal(decimal.RequireFromString("12.08")) {
		t.Fatalf("List() = %+v, want the added transaction", list)
	}
}

func TestTransactionsRepoAddRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	repo := NewTransactionsRepo(openTestDB(t))
	ctx := context.Background()
	if _, err := repo.Add(ctx, NewTransaction{Kind: KindIncome}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Add(zero amount) error = %v, want ErrInvalidAmount", err)
	}
	if _, err := repo.Add(ctx, NewTransaction{
		Kind: KindIncome, Amount: decimal.NewFromInt(1), TaxRate: decimal.NewFromInt(-1),
	}); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("Add(negative rate) error = %v, want ErrInvalidRate", err)
	}
	if _, err := repo.Add(ctx, NewTransaction{Kind: "gift", Amount: decimal.NewFromInt(1)}); err == nil {
		t.Fatal("Add(unknown kind) error = nil, want non-nil")
	}
}

func TestTransactionsRepoBucketTotals(t *testing.T) {
	t.Parallel()

	repo := NewTransactionsRepo(openTestDB(t))
	for _, in := range []NewTransaction{
		{OccurredOn: day(2024, time.January, 3), Kind: KindOutlay, Amount: decimal.NewFromInt(10)},
		{OccurredOn: day(2024, time.January, 3), Kind: KindOutlay, Amount: decimal.NewFromInt(5)},
		{OccurredOn: day(2024, time.February, 9), Kind: KindOutlay, Amount: decimal.NewFromInt(7)},
		{OccurredOn: day(2024, time.February, 9), Kind: KindIncome, Amount: decimal.NewFromInt(100)},
		{OccurredOn: day(2025, time.January, 1), Kind: KindOutlay, Amount: decimal.NewFromInt(99)},
	} {
		mustAdd(t, repo, in)
	}

	ctx := context.Background()
	months, err := repo.BucketTotals(ctx, KindOutlay, day(2024, time.January, 1), day(2025, time.January, 1), BucketMonth)
	if err != nil {
		t.Fatalf("BucketTotals(month) unexpected error: %v", err)
	}
	want := []BucketTotal{{Key: "2024-01", Cents: 1500}, {Key: "2024-02", Cents: 700}}
	if len(months) != len(want) || months[0] != want[0] || months[1] != want[1] {
		t.Fatalf("BucketTotals(month) = %+v, want %+v", months, want)
	}

	days, err := repo.BucketTotals(ctx, KindIncome, day(2024, time.February, 1), day(2024, time.March, 1), BucketDay)
	if err != nil {
		t.Fatalf("BucketTotals(day) unexpected error: %v", err)
	}
	if len(days) != 1 || days[0] != (BucketTotal{Key: "2024-02-09", Cents: 10000}) {
		t.Fatalf("BucketTotals(day) = %+v", days)
	}
}

func TestTransactionsRepoCategoryTotals(t *testing.T) {
	t.Parallel()

	repo := NewTransactionsRepo(openTestDB(t))
	for _, in := range []NewTransaction{
		{OccurredOn: day(2024, time.May, 2), Kind: KindOutlay, Category: "Food/Groceries", Amount: decimal.NewFromInt(30)},
		{OccurredOn: day(2024, time.May, 3), Kind: KindOutlay, Category: "Food/Dining", Amount: decimal.NewFromInt(20)},
		{OccurredOn: day(2024, time.May, 4), Kind: KindOutlay, Category: "Rent", Amount: decimal.NewFromInt(400)},
		{OccurredOn: day(2024, time.May, 5), Kind: KindOutlay, Amount: decimal.NewFromInt(1)},
	} {
		mustAdd(t, repo, in)
	}

	got, err := repo.CategoryTotals(context.Background(), KindOutlay, day(2024, time.May, 1), day(2024, time.June, 1))
	if err != nil {
		t.Fatalf("CategoryTotals() unexpected error: %v", err)
	}
	want := []CategoryTotal{
		{Category: "Rent", Cents: 40000},
		{Category: "Food", Cents: 5000},
		{Category: uncategorized, Cents: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("CategoryTotals() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CategoryTotals()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTransactionsRepoDelete(t *testing.T) {
	t.Parallel()

	repo := NewTransactionsRepo(openTestDB(t))
	ctx := context.Background()
	tx := mustAdd(t, repo, NewTransaction{Kind: KindIncome, Amount: decimal.NewFromInt(3)})

	if has, err := repo.HasAny(ctx); err != nil || !has {
		t.Fatalf("HasAny() = %v, %v, want true", has, err)
	}
	if ok, err := repo.Delete(ctx, tx.ID); err != nil || !ok {
		t.Fatalf("Delete() = %v, %v, want true", ok, err)
	}
	if ok, err := repo.Delete(ctx, tx.ID); err != nil || ok {
		t.Fatalf("Delete() again = %v, %v, want false", ok, err)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	got, err := ParseAmount(" $1,234.50 ")
	if err != nil {
		t.Fatalf("ParseAmount() unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1234.5")) {
		t.Fatalf("ParseAmount() = %s, want 1234.5", got)
	}
	if _, err := ParseAmount("-3"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("ParseAmount(-3) error = %v, want ErrInvalidAmount", err)
	}
	if _, err := ParseAmount("lots"); err == nil {
		t.Fatal("ParseAmount(lots) error = nil, want non-nil")
	}
}

func TestTaxRatesRepo(t *testing.T) {
	t.Parallel()

	repo := NewTaxRatesRepo(openTestDB(t))
	ctx := context.Background()
	if err := repo.UpsertMany(ctx, map[string]decimal.Decimal{" GST ": decimal.RequireFromString("0.1")}); err != nil {
		t.Fatalf("UpsertMany() unexpected error: %v", err)
	}
	rate, ok, err := repo.Get(ctx, "gst")
	if err != nil || !ok || !rate.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("Get(gst) = %s, %v, %v, want 0.1", rate, ok, err)
	}
	if _, ok, err := repo.Get(ctx, "vat"); err != nil || ok {
		t.Fatalf("Get(vat) = %v, %v, want missing", ok, err)
	}
	if err := repo.UpsertMany(ctx, map[string]decimal.Decimal{"bad": decimal.NewFromInt(-1)}); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("UpsertMany(negative) error = %v, want ErrInvalidRate", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "gst" {
		t.Fatalf("List() = %+v, %v, want only gst", list, err)
	}
}

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                   uncategorized,
		" / ":                uncategorized,
		"Food":               "Food",
		"Food / Take  away/": "Food/Take away",
	}
	for in, want := range tests {
		if got := normalizeCategory(in); got != want {
			t.Fatalf("normalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
	if got := categoryRoot("Food/Take away"); got != "Food" {
		t.Fatalf("categoryRoot() = %q, want Food", got)
	}
}
