package cmd

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Daskott/agenda/colors"
	"github.com/Daskott/agenda/render"
	"github.com/Daskott/agenda/store"
	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
)

func createWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		times    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep refreshing the contact list until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if times < 0 {
				return fmt.Errorf("invalid argument \"%v\", --times must be >= 0", times)
			}
			return runWatch(cmd, interval, times)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "time between refreshes (default is 'watch.interval' in config)")
	cmd.Flags().IntVarP(&times, "times", "n", 0, "stop after this many refreshes, 0 means never")

	return cmd
}

func runWatch(cmd *cobra.Command, interval time.Duration, times int) error {
	var outMu sync.Mutex

	// Redraw once a refresh completes or its notices expire
	onChange := func(snapshot store.Snapshot) {
		if snapshot.Loading {
			return
		}

		outMu.Lock()
		defer outMu.Unlock()
		printSnapshotAt(cmd, snapshot)
	}

	a, err := newApp(cmd, store.WithOnChange(onChange))
	if err != nil {
		return err
	}

	if interval <= 0 {
		interval = a.config.Watch.Interval
	}
	if interval <= 0 {
		return fmt.Errorf("invalid argument \"%v\", --interval must be > 0", interval)
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	var refreshes int32
	scheduler := gocron.NewScheduler(time.Local)
	_, err = scheduler.Every(interval).SingletonMode().Do(func() {
		if ctx.Err() != nil {
			return
		}
		a.store.List(ctx)

		if times > 0 && atomic.AddInt32(&refreshes, 1) >= int32(times) {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	a.logg.Debugw("watching contacts", "interval", interval.String())

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	return nil
}

func printSnapshotAt(cmd *cobra.Command, snapshot store.Snapshot) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s\n", colors.Timestamp(time.Now().Format("15:04:05")))
	if notices := render.Notices(snapshot); notices != "" {
		fmt.Fprintln(out, notices)
	}
	fmt.Fprintln(out, render.ContactTable(snapshot.Contacts))
	fmt.Fprintln(out, render.Footer(snapshot))
}
