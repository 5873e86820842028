package driver

import (
	"log"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/cct-timetabling/cct/engine"
)

// PoolConfig controls a multi-worker run: how many independent searches
// run concurrently, for how long overall, and what each one does.
type PoolConfig struct {
	Workers  int
	Duration time.Duration
	Worker   Config
}

// DefaultPoolConfig returns one worker per CPU, each running
// DefaultConfig for the given duration.
func DefaultPoolConfig(duration time.Duration) PoolConfig {
	worker := DefaultConfig()
	worker.Duration = duration
	return PoolConfig{Workers: runtime.NumCPU(), Duration: duration, Worker: worker}
}

// RunPool runs cfg.Workers independent searches concurrently, each
// owning its own *rand.Rand seeded from seed plus its worker index, and
// returns the best result found across all of them. Every worker
// mutates its own engine.State exclusively, per the engine's
// single-owner concurrency model; only the best-so-far bookkeeping is
// shared, guarded by mu.
func RunPool(inst *engine.Instance, cfg PoolConfig, seed int64) Result {
	results := make(chan Result, cfg.Workers)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerIndex int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(workerIndex)))
			results <- Run(inst, cfg.Worker, rng)
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var mu sync.Mutex
	best := Result{Badness: -1}
	start := time.Now()
	count := 0
	for result := range results {
		mu.Lock()
		count++
		if result.Badness >= 0 && (best.Badness < 0 || result.Badness < best.Badness) {
			best = result
			log.Printf("new best schedule found, badness %d (worker run %d, %v elapsed)",
				best.Badness, count, time.Since(start).Round(time.Second))
		}
		mu.Unlock()
	}

	log.Printf("%d worker runs completed in %v", count, time.Since(start).Round(time.Second))
	return best
}
