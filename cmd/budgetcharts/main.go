// Command budgetcharts draws income and outlay charts from a local ledger,
// interactively in the terminal or as SVG and text renders.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/spf13/cobra"

	"github.com/lachiem1/budgetcharts/internal/config"
	"github.com/lachiem1/budgetcharts/internal/logging"
	"github.com/lachiem1/budgetcharts/internal/storage"
)

type app struct {
	cfg     config.Config
	cfgPath string
	log     *bolt.Logger

	dbPath   string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "budgetcharts",
		Short:             "Chart income and outlay from your ledger",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default: $BUDGETCHARTS_CONFIG or the user config dir)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "ledger database path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "trace, debug, info, warn or error")

	root.AddCommand(a.viewCmd(), a.renderCmd(), a.addCmd(), a.taxCmd(), a.dbCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

	a.cfg = cfg
	a.cfgPath = path
	a.log = logging.Get()
	logging.With(a.log.Debug(), logging.Command(cmd.Name()), logging.Path(path)).Msg("config loaded")
	return nil
}

// storageConfig resolves the ledger location: --db, then the environment,
// then the config file, then the default.
func (a *app) storageConfig() (storage.Config, error) {
	mode := storage.Mode(strings.ToLower(strings.TrimSpace(a.cfg.Storage.Mode)))
	cfg, err := storage.ResolveConfig(a.cfg.Storage.Path, mode)
	if err != nil {
		return storage.Config{}, err
	}
	if a.dbPath != "" {
		cfg.Path = a.dbPath
	}
	return cfg, nil
}

func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	cfg, err := a.storageConfig()
	if err != nil {
		return nil, err
	}
	logging.With(a.log.Debug(), logging.DBMode(string(cfg.Mode)), logging.Path(cfg.Path)).Msg("opening ledger")
	db, err := storage.OpenWith(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return db, nil
}
