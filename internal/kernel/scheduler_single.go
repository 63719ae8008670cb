package kernel

import "time"

// waitPollInterval bounds the ready-queue timed wait used across the
// single-CPU policies when nothing is ready to dispatch (spec.md §4.4
// "briefly wait on the queue condition variable (timed)"). The FCFS
// "block until FINISHED" poll sleeps 10 ms per check instead.
const waitPollInterval = 5 * time.Millisecond

// runSingleCore runs the single-CPU scheduler loop. Its body branches on
// policy (spec.md §4.4); the loop terminates once the generator is done,
// the ready queue (or CFS runqueue, under CFS) is empty, and no process
// is dispatched.
func (e *SchedulerEngine) runSingleCore() error {
	switch e.cfg.Policy {
	case FCFS:
		return e.runFCFS()
	case RoundRobin:
		return e.runRoundRobin()
	case Priority:
		return e.runPriority()
	case CFS:
		return e.runCFS()
	default:
		return errUnknownPolicy(e.cfg.Policy)
	}
}

func (e *SchedulerEngine) runFCFS() error {
	b := newBudget()
	for {
		if e.isGeneratorDone() && e.ready.Empty() {
			return nil
		}
		if b.tick() {
			return nil
		}

		p := e.ready.Dequeue()
		if p == nil {
			e.ready.WaitWithTimeout(waitPollInterval)
			continue
		}

		p.Lock()
		p.setRunningLocked()
		p.Unlock()
		e.log.Essential("[FCFS] Executando processo PID %d", p.PID)

		for {
			state, _ := p.snapshotState()
			if state == Finished {
				break
			}
			sleepMillis(10)
		}
		e.log.Essential("[FCFS] Processo PID %d finalizado", p.PID)
	}
}

func (e *SchedulerEngine) runRoundRobin() error {
	quantum := e.cfg.QuantumMS
	b := newBudget()
	for {
		if e.isGeneratorDone() && e.ready.Empty() {
			return nil
		}
		if b.tick() {
			return nil
		}

		p := e.ready.Dequeue()
		if p == nil {
			e.ready.WaitWithTimeout(waitPollInterval)
			continue
		}

		e.log.Essential("[RR] Executando processo PID %d com quantum %dms", p.PID, quantum)

		p.Lock()
		remaining := p.RemainingMS
		p.Unlock()

		if remaining <= quantum {
			// This is the process's final slice: per spec.md §9 the
			// scheduler, not the worker, drives remaining_ms under RR, so
			// it debits the full remaining amount itself rather than
			// waiting on a Finished state nothing else would produce.
			p.Lock()
			p.setRunningLocked()
			p.Unlock()

			sleepMillis(remaining)

			p.Lock()
			p.debitLocked(remaining)
			p.Unlock()

			e.log.Essential("[RR] Processo PID %d finalizado", p.PID)
			continue
		}

		p.Lock()
		p.debitLocked(quantum)
		p.Unlock()
		e.ready.Enqueue(p)
	}
}

func (e *SchedulerEngine) runPriority() error {
	const tickMS = 50
	b := newBudget()
	for {
		if e.isGeneratorDone() && e.ready.Empty() {
			return nil
		}
		if b.tick() {
			return nil
		}

		p := e.ready.DequeueHighestPriority()
		if p == nil {
			e.ready.WaitWithTimeout(waitPollInterval)
			continue
		}

		e.log.Essential("[PRIORIDADE] Executando processo PID %d prioridade %d", p.PID, p.Priority)
		p.Lock()
		p.setRunningLocked()
		p.Unlock()

		for {
			p.Lock()
			finished := p.debitLocked(tickMS)
			p.Unlock()
			if finished {
				e.log.Essential("[PRIORIDADE] Processo PID %d finalizado", p.PID)
				break
			}

			challenger := e.ready.PeekHighestPriority()
			if challenger != nil && challenger.Priority < p.Priority {
				p.Lock()
				p.setReadyLocked()
				p.Unlock()
				e.ready.EnqueueByPriority(p)
				e.log.Essential("[PRIORIDADE] Processo PID %d preemptado por processo de maior prioridade", p.PID)
				break
			}
			sleepMillis(tickMS)
		}
	}
}

func (e *SchedulerEngine) runCFS() error {
	b := newBudget()
	for {
		for {
			p := e.ready.Dequeue()
			if p == nil {
				break
			}
			e.cfsrq.Enqueue(p)
		}

		if e.isGeneratorDone() && e.ready.Empty() && !e.cfsrq.HasProcesses() {
			return nil
		}
		if b.tick() {
			return nil
		}

		p := e.cfsrq.PickNext()
		if p == nil {
			e.ready.WaitWithTimeout(waitPollInterval)
			continue
		}

		ts := e.cfsrq.Timeslice(p)
		e.log.Essential("[CFS] Executando processo PID %d", p.PID)
		p.Lock()
		p.setRunningLocked()
		remaining := p.RemainingMS
		p.Unlock()

		runtimeUS := ts
		if remaining*1000 < runtimeUS {
			runtimeUS = remaining * 1000
		}

		sleepMicros(runtimeUS)

		p.Lock()
		finished := p.debitLocked(runtimeUS / 1000)
		p.Unlock()

		reinserted := e.cfsrq.PutPrev(p, runtimeUS*1000)
		if finished || !reinserted {
			e.log.Essential("[CFS] Processo PID %d finalizado", p.PID)
		} else {
			p.Lock()
			p.setReadyLocked()
			p.Unlock()
		}
	}
}
