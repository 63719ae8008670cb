package main

import (
	"context"
	"time"

	"github.com/orizon-lang/minikernel/internal/kernel"
	"github.com/orizon-lang/minikernel/internal/workload"
)

// arrivalPollIntervalMS paces the generator's scan over pending arrivals,
// mirroring original_source/src/main.c's process_generator_thread
// ("Pequena pausa para não consumir CPU desnecessariamente, usleep(10000)").
const arrivalPollIntervalMS = 10

// workloadGenerator is the production Generator: it holds the parsed
// workload and, as simulated time advances, admits each process once its
// arrival instant has elapsed (spec.md §2, §4.6).
type workloadGenerator struct {
	processes []workload.Process
}

func newWorkloadGenerator(processes []workload.Process) *workloadGenerator {
	return &workloadGenerator{processes: processes}
}

// Run implements kernel.Generator.
func (g *workloadGenerator) Run(ctx context.Context, clk *kernel.Clock, admit func(*kernel.PCB)) error {
	pending := make([]workload.Process, len(g.processes))
	copy(pending, g.processes)
	created := make([]bool, len(pending))
	remaining := len(pending)

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := clk.NowMillis()
		for i, proc := range pending {
			if created[i] {
				continue
			}
			if now >= proc.ArrivalMS {
				pcb := kernel.NewPCB(i+1, proc.DurationMS, proc.Priority, proc.Threads, proc.ArrivalMS)
				admit(pcb)
				created[i] = true
				remaining--
			}
		}

		if remaining > 0 {
			time.Sleep(arrivalPollIntervalMS * time.Millisecond)
		}
	}
	return nil
}
