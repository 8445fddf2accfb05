package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doneflow/doneflow/pkg/adapters/fs"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream change events for matching slots",
	Long: `Watch prints every change to slots matching the glob pattern,
including changes made by other processes editing the data directory,
until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("Failed to load config", err)
		}
		store, err := openStore(cfg)
		if err != nil {
			fatal("Failed to open store", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, stop := store.Watch(ctx, watchPattern)
		defer stop()

		// Surface external edits too, when the store sits on disk.
		if medium, ok := store.Medium().(*fs.Medium); ok {
			worker := fs.NewWatchWorker(medium, store)
			if err := worker.Start(ctx); err != nil {
				fatal("Failed to start filesystem watcher", err)
			}
			defer worker.Stop(context.Background())
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		fmt.Printf("Watching %q (Ctrl+C to stop)...\n", watchPattern)
		for {
			select {
			case <-sigCh:
				fmt.Println("\nStopped.")
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				fmt.Printf("%s %s (%d bytes)\n", e.Type, e.Slot, len(e.Raw))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "*", "Slot glob pattern")
}
