package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lachiem1/budgetcharts/internal/auth"
	"github.com/lachiem1/budgetcharts/internal/logging"
	"github.com/lachiem1/budgetcharts/internal/storage"
)

func (a *app) dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the local ledger database",
	}

	var yes bool
	wipe := &cobra.Command{
		Use:   "wipe",
		Short: "Delete the local ledger database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.storageConfig()
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete %s without --yes", cfg.Path)
			}
			if err := storage.Wipe(cfg); err != nil {
				return err
			}
			logging.With(a.log.Info(), logging.Command("db wipe"), logging.Path(cfg.Path)).Msg("ledger wiped")
			fmt.Fprintf(cmd.OutOrStdout(), "local database wiped: %s\n", cfg.Path)
			return nil
		},
	}
	wipe.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	key := &cobra.Command{
		Use:   "key",
		Short: "Manage the secure-mode database key in the system keyring",
	}
	keySet := &cobra.Command{
		Use:   "set",
		Short: "Store a database key read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), "Enter database key: ")
			value, err := readSecret()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if strings.TrimSpace(value) == "" {
				return errors.New("empty key")
			}
			if err := auth.SaveDBKey(value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database key saved to your system credential store.")
			return nil
		},
	}
	keyDelete := &cobra.Command{
		Use:   "delete",
		Short: "Remove the database key; an encrypted ledger becomes unreadable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.DeleteDBKey(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database key removed.")
			return nil
		},
	}
	key.AddCommand(keySet, keyDelete)

	cmd.AddCommand(wipe, key)
	return cmd
}
