package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vapstack/fastv7"
)

func newTimebaseCommand(a *app) *cobra.Command {
	var window time.Duration
	cmd := &cobra.Command{
		Use:   "timebase",
		Short: "Show the tick source and compare its nominal and measured rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if window <= 0 {
				return fmt.Errorf("--window must be positive")
			}
			tb := fastv7.DefaultTimebase()
			measured := measureRate(tb, window)
			a.log.Debug("timebase measured", zap.String("name", tb.Name()), zap.Uint64("ticks_per_ms", measured))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "timebase:          %s\n", tb.Name())
			fmt.Fprintf(out, "nominal ticks/ms:  %d\n", tb.TicksPerMilli())
			fmt.Fprintf(out, "measured ticks/ms: %d\n", measured)
			return nil
		},
	}
	cmd.Flags().DurationVar(&window, "window", 50*time.Millisecond, "Measurement window")
	return cmd
}

func measureRate(tb fastv7.Timebase, window time.Duration) uint64 {
	start := time.Now()
	t0 := tb.Ticks()
	time.Sleep(window)
	t1 := tb.Ticks()
	ms := uint64(time.Since(start).Milliseconds())
	if ms == 0 || t1 <= t0 {
		return 0
	}
	return (t1 - t0) / ms
}
