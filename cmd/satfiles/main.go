package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satfiles/satfiles/internal/config"
	"github.com/satfiles/satfiles/internal/dataset"
	"github.com/satfiles/satfiles/internal/inventory"
	"github.com/satfiles/satfiles/internal/store"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "satfiles",
	Short: "A file inventory manager for instrument data archives",
	Long: `satfiles maintains date-ordered catalogs of instrument data files,
parsing timestamps out of filenames with per-dataset format templates.
It persists catalogs between runs, reports files added since the last
recorded state and provides a TUI browser for exploring a catalog.`,
}

var (
	flagDataDir string
	flagHome    string
	flagStore   string
	flagLog     string
	flagUpdate  bool
)

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Root directory instrument data lives under (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "State directory for stored catalogs (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Catalog store backend: text|memory|sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "dev", "Logging mode: dev|prod|off")
	rootCmd.PersistentFlags().BoolVar(&flagUpdate, "update", false, "Refresh the catalog from disk when opening a dataset")

	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagHome != "" {
		cfg.HomeDir = flagHome
	}
	if flagStore != "" {
		cfg.Store = flagStore
	}
	return cfg, nil
}

func newLogger() (*zap.SugaredLogger, error) {
	switch flagLog {
	case "off":
		return zap.NewNop().Sugar(), nil
	case "prod":
		lg, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		return lg.Sugar(), nil
	case "dev", "":
		lg, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		return lg.Sugar(), nil
	default:
		return nil, fmt.Errorf("unknown log mode %q (expected dev, prod or off)", flagLog)
	}
}

// openDataset resolves selector against the config and opens the dataset
// with the configured store backend. The returned closer releases the
// dataset and any backend resources.
func openDataset(selector string, update bool) (*dataset.Dataset, func(), error) {
	if selector == "" {
		return nil, nil, fmt.Errorf("--dataset is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	def, err := dataset.Find(cfg.Datasets, selector)
	if err != nil {
		return nil, nil, err
	}
	lg, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	home, err := cfg.Home()
	if err != nil {
		return nil, nil, err
	}

	opts := inventory.DefaultOptions().
		WithHomePath(home).
		WithUpdateFiles(update || flagUpdate)

	cleanup := func() { _ = lg.Sync() }
	switch cfg.Store {
	case "", "text":
	case "memory":
		opts.WithWriteToDisk(false)
	case "sqlite":
		base := inventory.StoredFileBase(def.Platform, def.Name, def.Tag, def.InstID)
		s, err := store.NewSQLiteStore(filepath.Join(home, base+".db"))
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts.WithBackend(s)
		prev := cleanup
		cleanup = func() {
			s.Close()
			prev()
		}
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unknown store %q (expected text, memory or sqlite)", cfg.Store)
	}

	ds, err := dataset.Open(lg, def, cfg.DataDir, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	closer := func() {
		ds.Close()
		cleanup()
	}
	return ds, closer, nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
