package kernel

import (
	"context"
	"sync"
)

// EngineConfig selects the scheduling policy and its parameters for one
// run (spec.md §3 "System State").
type EngineConfig struct {
	Policy     Policy
	QuantumMS  int64
	DualCPU    bool
	Generator  Generator
}

// SchedulerEngine owns the process array, the ready queue, the CFS
// runqueue, the event log, and the clock for one simulation run (spec.md
// §9 "Reframe it as a SchedulerEngine value... The engine is passed by
// reference into generator and scheduler tasks; no ambient state").
type SchedulerEngine struct {
	cfg EngineConfig

	clk    *Clock
	log    *Log
	ready  *ReadyQueue
	cfsrq  *CFSRunqueue

	mu            sync.Mutex
	cond          *sync.Cond
	generatorDone bool

	// slots holds the currently dispatched PCB(s). Single-CPU mode uses
	// only slots[0]; dual-CPU mode uses both. nil means the slot is
	// empty.
	slots [2]*PCB

	processes []*PCB
}

// NewSchedulerEngine constructs an engine ready to Run the given config.
func NewSchedulerEngine(cfg EngineConfig) *SchedulerEngine {
	e := &SchedulerEngine{
		cfg:   cfg,
		clk:   NewClock(),
		log:   NewLog(),
		ready: NewReadyQueue(),
		cfsrq: NewCFSRunqueue(),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Log returns the engine's event log.
func (e *SchedulerEngine) Log() *Log { return e.log }

// admit is passed to the Generator: it records the PCB, starts its
// worker threads, and pushes it onto the appropriate waiting structure.
func (e *SchedulerEngine) admit(p *PCB) {
	e.mu.Lock()
	e.processes = append(e.processes, p)
	e.mu.Unlock()

	// Under single-CPU RR/PRIORITY/CFS the scheduler itself debits
	// remaining_ms arithmetically per §4.4, so the worker is a pure
	// time-consumer there. Dual-CPU mode has no such per-tick debit step
	// (§4.5 only retires/expands/assigns slots), so its workers always
	// drive, uniformly across policies.
	driveRemaining := e.cfg.Policy == FCFS || e.cfg.DualCPU
	StartWorkers(p, driveRemaining)

	switch e.cfg.Policy {
	case Priority:
		e.ready.EnqueueByPriority(p)
	default:
		e.ready.Enqueue(p)
	}
	e.log.Verbosef("process PID %d admitted with %d thread(s)", p.PID, p.ThreadCount)

	e.mu.Lock()
	e.cond.Broadcast()
	e.mu.Unlock()
}

// Run drives the generator and the scheduler loop (single- or dual-CPU,
// per cfg.DualCPU) to completion and returns the rendered essential log.
func (e *SchedulerEngine) Run(ctx context.Context) (string, error) {
	genErrCh := make(chan error, 1)
	go func() {
		err := e.cfg.Generator.Run(ctx, e.clk, e.admit)
		e.mu.Lock()
		e.generatorDone = true
		e.cond.Broadcast()
		e.mu.Unlock()
		e.ready.SetGeneratorDone()
		genErrCh <- err
	}()

	var err error
	if e.cfg.DualCPU {
		err = e.runMulticore()
	} else {
		err = e.runSingleCore()
	}
	if err != nil {
		return e.log.Finalize(), err
	}

	if genErr := <-genErrCh; genErr != nil {
		return e.log.Finalize(), genErr
	}

	e.log.Essential("Escalonador terminou execução de todos processos")
	return e.log.Finalize(), nil
}

func (e *SchedulerEngine) isGeneratorDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generatorDone
}
