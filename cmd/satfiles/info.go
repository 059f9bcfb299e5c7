package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/inventory"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display dataset and catalog metadata",
	Long:  `Print the dataset's identity, paths and catalog statistics.`,
	RunE:  runInfo,
}

var infoDataset string

func init() {
	infoCmd.Flags().StringVarP(&infoDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
}

var infoHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

func runInfo(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(infoDataset, false)
	if err != nil {
		return err
	}
	defer closer()

	def := ds.Definition()
	inv := ds.Files()

	fmt.Println(infoHeaderStyle.Render("Dataset Information"))
	fmt.Println("===================")
	fmt.Println()
	fmt.Printf("Platform:       %s\n", def.Platform)
	fmt.Printf("Name:           %s\n", def.Name)
	fmt.Printf("Tag:            %s\n", def.Tag)
	fmt.Printf("Inst ID:        %s\n", def.InstID)
	if def.Simulated != nil {
		fmt.Printf("Discovery:      simulated (%s to %s)\n", def.Simulated.Start, def.Simulated.Stop)
	} else {
		fmt.Printf("File Format:    %s\n", def.FileFormat)
		if def.Delimiter != "" {
			fmt.Printf("Delimiter:      %q\n", def.Delimiter)
		}
	}
	if def.MultiFileDay {
		fmt.Printf("Multi-file day: yes\n")
	}
	fmt.Printf("Data Path:      %s\n", inv.DataPath())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	switch cfg.Store {
	case "memory":
		fmt.Printf("Store:          memory (not persisted)\n")
	case "sqlite":
		base := inventory.StoredFileBase(def.Platform, def.Name, def.Tag, def.InstID)
		fmt.Printf("Store:          sqlite (%s.db)\n", base)
	default:
		fmt.Printf("Store:          text (%s)\n", inv.StoredFileName())
	}

	fmt.Println()
	fmt.Println(infoHeaderStyle.Render("Statistics"))
	fmt.Println("----------")
	fmt.Printf("Files:          %s\n", humanize.Comma(int64(inv.Snapshot().Len())))
	if start, ok := inv.StartDate(); ok {
		stop, _ := inv.StopDate()
		fmt.Printf("Date Range:     %s --- %s\n",
			start.Format("02 January 2006"), stop.Format("02 January 2006"))
	}
	if prev, err := inv.Previous(); err == nil && prev.Len() > 0 {
		fmt.Printf("Previous State: %s files\n", humanize.Comma(int64(prev.Len())))
	}

	return nil
}
