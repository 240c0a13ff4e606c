package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/lachiem1/budgetcharts/internal/logging"
	"github.com/lachiem1/budgetcharts/internal/storage"
)

func (a *app) addCmd() *cobra.Command {
	var (
		category string
		note     string
		date     string
		tax      string
	)
	cmd := &cobra.Command{
		Use:   "add income|outlay AMOUNT",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := storage.ParseKind(args[0])
			if err != nil {
				return err
			}
			amount, err := storage.ParseAmount(args[1])
			if err != nil {
				return err
			}
			var on time.Time
			if strings.TrimSpace(date) != "" {
				if on, err = time.ParseInLocation("2006-01-02", strings.TrimSpace(date), time.Local); err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
			}

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			rate, err := resolveTaxRate(cmd, storage.NewTaxRatesRepo(db), tax)
			if err != nil {
				return err
			}
			tx, err := storage.NewTransactionsRepo(db).Add(cmd.Context(), storage.NewTransaction{
				OccurredOn:  on,
				Kind:        kind,
				Category:    category,
				Description: note,
				Amount:      amount,
				TaxRate:     rate,
			})
			if err != nil {
				return err
			}

			logging.With(a.log.Debug(), logging.Command("add"), logging.Count(1)).Str("id", tx.ID).Msg("transaction added")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s $%s in %s on %s\n",
				tx.ID[:8], tx.Kind, humanize.CommafWithDigits(tx.Amount.InexactFloat64(), 2),
				tx.Category, tx.OccurredOn.Format("2 Jan 2006"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", `category path, e.g. "Food/Groceries"`)
	cmd.Flags().StringVarP(&note, "note", "n", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&tax, "tax", "", "tax rate name saved with 'tax set', or a rate such as 0.1")
	return cmd
}

// resolveTaxRate accepts a literal rate or the name of a saved one.
func resolveTaxRate(cmd *cobra.Command, rates *storage.TaxRatesRepo, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	if rate, err := decimal.NewFromString(raw); err == nil {
		return rate, nil
	}
	rate, ok, err := rates.Get(cmd.Context(), raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown tax rate %q; add it with 'budgetcharts tax set'", raw)
	}
	return rate, nil
}

func (a *app) taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Manage named tax rates",
	}
	set := &cobra.Command{
		Use:   "set NAME RATE",
		Short: "Save a named rate, e.g. 'tax set gst 0.1'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("parse rate %q: %w", args[1], err)
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return storage.NewTaxRatesRepo(db).UpsertMany(cmd.Context(), map[string]decimal.Decimal{args[0]: rate})
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "Show saved rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			rates, err := storage.NewTaxRatesRepo(db).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rates {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s%%\n", r.Name, r.Rate.Shift(2).String())
			}
			return nil
		},
	}
	cmd.AddCommand(set, list)
	return cmd
}
