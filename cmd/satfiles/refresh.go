package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Discover files and persist the catalog",
	Long: `Search the dataset's data directory for files matching its format
template, rebuild the catalog and persist it.`,
	RunE: runRefresh,
}

var refreshDataset string

func init() {
	refreshCmd.Flags().StringVarP(&refreshDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(refreshDataset, true)
	if err != nil {
		return err
	}
	defer closer()

	fmt.Println(ds.Files().String())
	return nil
}
