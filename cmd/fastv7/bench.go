package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vapstack/fastv7"
)

type benchResult struct {
	ids        int
	goroutines int
	elapsed    time.Duration
	ordered    bool
}

func (r benchResult) nsPerID() float64 {
	if r.ids == 0 {
		return 0
	}
	// each goroutine runs its share concurrently
	return float64(r.elapsed.Nanoseconds()) * float64(r.goroutines) / float64(r.ids)
}

func newBenchCommand(a *app) *cobra.Command {
	var (
		n          int
		goroutines int
		counted    bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure generation throughput with one Generator per goroutine",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 || goroutines <= 0 {
				return fmt.Errorf("-n and -g must be positive")
			}
			res := runBench(n, goroutines, counted, a.log)
			if counted && !res.ordered {
				return fmt.Errorf("counted IDs were not strictly increasing")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ids, %d goroutines, %s, %.2f ns/id per goroutine, %.1f M ids/s\n",
				res.ids, res.goroutines, res.elapsed, res.nsPerID(),
				float64(res.ids)/res.elapsed.Seconds()/1e6)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 10_000_000, "Identifiers per goroutine")
	cmd.Flags().IntVarP(&goroutines, "goroutines", "g", 1, "Concurrent goroutines")
	cmd.Flags().BoolVar(&counted, "counted", false, "Use the counter layout and verify ordering")
	return cmd
}

// runBench generates n IDs on each of the goroutines. For the counted
// layout every goroutine checks that its own IDs strictly increase.
func runBench(n, goroutines int, counted bool, log *zap.Logger) benchResult {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ordered = true
	)
	start := time.Now()
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := fastv7.NewGenerator(fastv7.WithLogger(log))
			if !counted {
				for j := 0; j < n; j++ {
					g.Next()
				}
				return
			}
			prev := g.NextCounted()
			ok := true
			for j := 1; j < n; j++ {
				id := g.NextCounted()
				if ok && id.Compare(prev) <= 0 {
					ok = false
				}
				prev = id
			}
			if !ok {
				mu.Lock()
				ordered = false
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	log.Info("bench finished",
		zap.Int("ids_per_goroutine", n),
		zap.Int("goroutines", goroutines),
		zap.Duration("elapsed", elapsed),
		zap.Bool("counted", counted),
	)
	return benchResult{ids: n * goroutines, goroutines: goroutines, elapsed: elapsed, ordered: ordered}
}
