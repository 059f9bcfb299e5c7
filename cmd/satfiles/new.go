package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "List files added since the last stored catalog",
	Long: `Refresh the catalog and print the files that were not part of the
previously stored state.`,
	RunE: runNew,
}

var newDataset string

func init() {
	newCmd.Flags().StringVarP(&newDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
}

func runNew(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(newDataset, false)
	if err != nil {
		return err
	}
	defer closer()

	fresh, err := ds.Files().GetNew()
	if err != nil {
		return err
	}
	if len(fresh) == 0 {
		fmt.Println("No new files.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tFILE\n")
	for _, e := range fresh {
		fmt.Fprintf(w, "%s\t%s\n", e.Time.Format("2006-01-02 15:04:05"), e.File)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d new files.\n", len(fresh))
	return nil
}
