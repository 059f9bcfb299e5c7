package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a catalog interactively",
	Long:  `Open an interactive TUI to scroll, filter and refresh the catalog.`,
	RunE:  runTUI,
}

var tuiDataset string

func init() {
	tuiCmd.Flags().StringVarP(&tuiDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Logging to stderr would garble the alt screen during in-TUI
	// refreshes, so stay quiet unless a mode was asked for.
	if !cmd.Root().PersistentFlags().Changed("log") {
		flagLog = "off"
	}

	ds, closer, err := openDataset(tuiDataset, false)
	if err != nil {
		return err
	}
	defer closer()

	model := tui.NewModel(ds.Files(), ds.Definition().Label())
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
