package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change tool settings",
	Long: `Inspect the effective settings or write a value into the config file.
Values set through the environment or flags apply per invocation; values
written here persist in ~/.satfiles/config.yaml.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a setting into the config file",
	Long: `Write one setting into the config file. Recognized keys:

  data_dir   root directory instrument data lives under
  home_dir   state directory for stored catalogs
  store      catalog store backend: text|memory|sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := config.Path()
	if err != nil {
		return err
	}
	home, err := cfg.Home()
	if err != nil {
		return err
	}

	fmt.Printf("Config file: %s\n", path)
	fmt.Printf("data_dir:    %s\n", cfg.DataDir)
	fmt.Printf("home_dir:    %s\n", home)
	fmt.Printf("store:       %s\n", cfg.Store)
	if len(cfg.Datasets) > 0 {
		fmt.Println("datasets:")
		for _, d := range cfg.Datasets {
			fmt.Printf("  %s\n", d.Label())
		}
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	// Edit the file contents directly so environment overrides active in
	// this shell do not get baked into the saved config.
	cfg, err := config.LoadFile("")
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "data_dir":
		cfg.DataDir = value
	case "home_dir":
		cfg.HomeDir = value
	case "store":
		switch value {
		case "text", "memory", "sqlite":
		default:
			return fmt.Errorf("unknown store %q (expected text, memory or sqlite)", value)
		}
		cfg.Store = value
	default:
		return fmt.Errorf("unknown key %q (expected data_dir, home_dir or store)", key)
	}

	if err := config.Save("", cfg); err != nil {
		return err
	}
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s = %s to %s\n", key, value, path)
	return nil
}
