package kernel

import "context"

// Generator is the process-generator collaborator (spec.md §2, §4.6): it
// owns the workload description and, as simulated time advances past each
// process's arrival instant, hands that process's PCB to the engine through
// admit, which starts the worker threads (StartWorkers) on the generator's
// goroutine and places the PCB on a ready/run queue. The scheduler loops
// never create threads themselves; Generator is their only upstream
// collaborator, and the only coupling between the two is this interface
// plus the worker contract each spawned goroutine obeys (see StartWorkers
// below and the description in engine.go).
type Generator interface {
	// Run drives arrivals to completion: for every process in the
	// workload, it blocks until that process's arrival instant has
	// elapsed relative to clk and calls admit with the process's PCB;
	// admit spawns the worker threads. Run returns once every process has
	// been admitted, at which point the caller is expected to mark
	// generator_done (spec.md §5 "Writes to generator_done happen-before
	// the final signal on the scheduler condition variable").
	Run(ctx context.Context, clk *Clock, admit func(*PCB)) error
}

// StartWorkers spawns ThreadCount goroutines for p, each obeying the
// worker-thread contract of spec.md §4.6. driveRemaining selects whether
// this worker is responsible for debiting RemainingMS itself (true under
// FCFS and under dual-CPU mode for every policy, per the §9 redesign note
// picking one writer per policy) or is a pure time-consumer that the
// single-CPU scheduler loop debits instead.
func StartWorkers(p *PCB, driveRemaining bool) {
	for i := 0; i < p.ThreadCount; i++ {
		tcb := &TCB{Process: p, Index: i}
		p.Threads = append(p.Threads, tcb)
		go runWorker(tcb, driveRemaining)
	}
}

// tickMS is the simulated duration a worker consumes per loop iteration
// (spec.md §4.6 "sleep for one tick (500 ms)").
const tickMS = 500

func runWorker(tcb *TCB, driveRemaining bool) {
	p := tcb.Process
	for {
		p.Lock()
		for p.State != Running && p.State != Finished {
			p.Wait()
		}
		if p.State == Finished {
			p.Unlock()
			return
		}
		p.Unlock()

		sleepMillis(tickMS)

		if !driveRemaining {
			continue
		}

		p.Lock()
		if p.State == Finished {
			p.Unlock()
			return
		}
		p.debitLocked(tickMS)
		p.Unlock()
	}
}
