package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print catalog entries",
	Long: `Print the catalog as TIME and FILE columns, optionally limited to a
date range. The start bound is inclusive, the stop bound exclusive.`,
	RunE: runList,
}

var (
	listDataset string
	listStart   string
	listStop    string
	listLimit   int
)

func init() {
	listCmd.Flags().StringVarP(&listDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
	listCmd.Flags().StringVar(&listStart, "start", "", "Start of the date range (2006-01-02 or RFC3339)")
	listCmd.Flags().StringVar(&listStop, "stop", "", "End of the date range, exclusive (2006-01-02 or RFC3339)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of entries (0 = unlimited)")
}

func parseWhen(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q, want 2006-01-02 or RFC3339", s)
}

func runList(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(listDataset, false)
	if err != nil {
		return err
	}
	defer closer()
	inv := ds.Files()

	var entries []catalog.Entry
	if listStart != "" || listStop != "" {
		if listStart == "" || listStop == "" {
			return fmt.Errorf("--start and --stop must be given together")
		}
		start, err := parseWhen(listStart)
		if err != nil {
			return err
		}
		stop, err := parseWhen(listStop)
		if err != nil {
			return err
		}
		entries = inv.TimeRange(start, stop)
	} else {
		entries = inv.Snapshot().Entries()
	}

	if listLimit > 0 && len(entries) > listLimit {
		entries = entries[:listLimit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tFILE\n")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Time.Format("2006-01-02 15:04:05"), e.File)
	}
	return w.Flush()
}
