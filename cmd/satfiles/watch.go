package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satfiles/satfiles/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Auto-refresh the catalog when the data directory changes",
	Long: `Watch the dataset's data directory and refresh the catalog whenever
files change, reporting newly found files. Runs until interrupted.`,
	RunE: runWatch,
}

var (
	watchDataset  string
	watchDebounce time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchDataset, "dataset", "D", "", "Dataset selector platform/name[/tag[/inst_id]]")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "Quiet period after the last filesystem event before refreshing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ds, closer, err := openDataset(watchDataset, true)
	if err != nil {
		return err
	}
	defer closer()
	inv := ds.Files()

	w, err := watch.NewWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(inv.DataPath()); err != nil {
		return err
	}

	w.OnChange = func() error {
		fresh, err := inv.GetNew()
		if err != nil {
			return err
		}
		for _, e := range fresh {
			fmt.Printf("%s  %s\n", e.Time.Format("2006-01-02 15:04:05"), e.File)
		}
		if len(fresh) > 0 {
			fmt.Printf("%d new files, catalog now holds %d.\n", len(fresh), inv.Snapshot().Len())
		}
		return nil
	}
	w.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("Watching %s (%d files known). Press Ctrl+C to stop.\n",
		inv.DataPath(), inv.Snapshot().Len())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("Stopped.")
	return nil
}
