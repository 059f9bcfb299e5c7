package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/usage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Report the on-disk footprint of a catalog",
	Long: `Stat every file in the catalog and report totals plus a per-year
breakdown. Missing and empty files are counted, not errors.`,
	RunE: runUsage,
}

var usageDataset string

func init() {
	usageCmd.Flags().StringVarP(&usageDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
}

func runUsage(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(usageDataset, false)
	if err != nil {
		return err
	}
	defer closer()
	inv := ds.Files()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	reporter := usage.NewReporter(inv.DataPath())
	showProgress := isTerminal(os.Stderr)
	if showProgress {
		reporter.SetProgressFunc(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r\033[K%d/%d files", done, total)
		})
	}

	stats, err := reporter.Compute(ctx, inv.Snapshot().Entries())
	if showProgress {
		fmt.Fprintf(os.Stderr, "\r\033[K")
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
		return err
	}

	fmt.Printf("Catalog:    %s files\n", humanize.Comma(int64(stats.TotalFiles)))
	fmt.Printf("On disk:    %s\n", humanize.Comma(int64(stats.OnDisk)))
	fmt.Printf("Missing:    %s\n", humanize.Comma(int64(stats.Missing)))
	fmt.Printf("Empty:      %s\n", humanize.Comma(int64(stats.Empty)))
	fmt.Printf("Total size: %s\n", humanize.Bytes(uint64(stats.TotalSize)))

	if len(stats.Years) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "YEAR\tFILES\tSIZE\n")
		for _, y := range stats.Years {
			fmt.Fprintf(w, "%d\t%s\t%s\n",
				y.Year, humanize.Comma(int64(y.Files)), humanize.Bytes(uint64(y.Size)))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
