package main

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lachiem1/budgetcharts/internal/config"
	"github.com/lachiem1/budgetcharts/internal/logging"
	"github.com/lachiem1/budgetcharts/internal/storage"
	"github.com/lachiem1/budgetcharts/internal/tui"
	"github.com/lachiem1/budgetcharts/internal/usage"
)

func (a *app) viewCmd() *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse charts interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("view needs an interactive terminal; use render instead")
			}
			u, err := usage.ParsePeriodUnit(unit)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			p := tea.NewProgram(tui.New(tui.Options{
				Ledger: storage.NewTransactionsRepo(db),
				Config: a.cfg,
				Unit:   u,
			}), tea.WithAltScreen())

			go func() {
				err := config.Watch(ctx, a.cfgPath, func(cfg config.Config, err error) {
					p.Send(tui.ConfigChanged(cfg, err))
				})
				if err != nil {
					logging.With(a.log.Debug(), logging.Path(a.cfgPath), logging.ErrorField(err)).Msg("config watch stopped")
				}
			}()

			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&unit, "period", "p", "month", "day, week, month or year")
	return cmd
}
