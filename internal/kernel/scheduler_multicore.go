package kernel

// multicorePoll is the pacing sleep for the dual-CPU coordinator loop
// when neither slot is empty nor the queue worth an immediate retry
// (spec.md §4.5 "otherwise it spins with a ~50 µs pacing sleep").
const multicorePoll = 50

// runMulticore runs the two-CPU-slot coordinator loop (spec.md §4.5). A
// single loop, protected by the engine's mutex and condition variable,
// retires finished processes, expands a lone Round-Robin runner across
// idle slots, and assigns new work to empty slots, every tick.
func (e *SchedulerEngine) runMulticore() error {
	b := newBudget()
	for {
		if e.isGeneratorDone() && e.ready.Empty() && e.slotsEmpty() {
			return nil
		}
		if b.tick() {
			return nil
		}

		retired := e.retireFinished()
		expanded := e.expandRoundRobin()
		assigned := e.assignNewWork()

		if !retired && !expanded && !assigned {
			if e.ready.Empty() && e.slotsEmpty() && !e.isGeneratorDone() {
				e.ready.WaitWithTimeout(waitPollInterval)
			} else {
				sleepMicros(multicorePoll)
			}
		}
	}
}

func (e *SchedulerEngine) slotsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slots[0] == nil && e.slots[1] == nil
}

// retireFinished implements step 1: clear every slot holding a FINISHED
// PCB, emitting exactly one finish record per pid, then either compacts
// (RR with >1 CPU) or re-announces continuing work on its slot (other
// policies).
func (e *SchedulerEngine) retireFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	any := false
	for k := 0; k < 2; k++ {
		p := e.slots[k]
		if p == nil {
			continue
		}
		state, _ := p.snapshotState()
		if state != Finished {
			continue
		}
		any = true

		alreadyRetired := false
		for j := 0; j < k; j++ {
			if e.slots[j] == p {
				alreadyRetired = true
				break
			}
		}
		if !alreadyRetired {
			e.log.Essential("[%s] Processo PID %d finalizado", e.cfg.Policy, p.PID)
		}
		for j := 0; j < 2; j++ {
			if e.slots[j] == p {
				e.slots[j] = nil
			}
		}
	}
	if !any {
		return false
	}

	if e.cfg.Policy == RoundRobin {
		var running []*PCB
		for k := 0; k < 2; k++ {
			if e.slots[k] != nil {
				running = append(running, e.slots[k])
				e.slots[k] = nil
			}
		}
		queueNonEmpty := !e.ready.Empty()
		for i, p := range running {
			if i >= 2 {
				break
			}
			e.slots[i] = p
			if queueNonEmpty {
				e.log.Essential("[RR] Executando processo PID %d com quantum %dms // processador %d", p.PID, e.cfg.QuantumMS, i)
			}
		}
	} else {
		for k := 0; k < 2; k++ {
			p := e.slots[k]
			if p == nil {
				continue
			}
			e.emitExecutingLocked(p, k)
		}
	}

	e.cond.Broadcast()
	return true
}

// expandRoundRobin implements step 2: when RR and the ready queue is
// empty, a lone running PCB not already occupying every slot is placed
// into the remaining empty slot(s), at most once per tick.
func (e *SchedulerEngine) expandRoundRobin() bool {
	if e.cfg.Policy != RoundRobin || !e.ready.Empty() {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var runner *PCB
	occupied := 0
	for k := 0; k < 2; k++ {
		if e.slots[k] != nil {
			occupied++
			runner = e.slots[k]
		}
	}
	if occupied == 0 || occupied == 2 {
		return false
	}

	expanded := false
	for k := 0; k < 2; k++ {
		if e.slots[k] == nil {
			e.slots[k] = runner
			e.log.Essential("[RR] Executando processo PID %d com quantum %dms // processador %d", runner.PID, e.cfg.QuantumMS, k)
			expanded = true
		}
	}
	return expanded
}

// assignNewWork implements step 3: dispatch a PCB from the ready queue
// into each empty slot.
func (e *SchedulerEngine) assignNewWork() bool {
	any := false
	for {
		e.mu.Lock()
		slot := -1
		for k := 0; k < 2; k++ {
			if e.slots[k] == nil {
				slot = k
				break
			}
		}
		e.mu.Unlock()
		if slot == -1 {
			return any
		}

		p := e.dequeueForPolicy()
		if p == nil {
			return any
		}

		e.mu.Lock()
		e.slots[slot] = p
		e.mu.Unlock()

		p.Lock()
		p.setRunningLocked()
		p.Unlock()
		e.emitExecutingLocked(p, slot)
		any = true

		if e.cfg.Policy != RoundRobin && p.ThreadCount > 1 {
			e.mu.Lock()
			other := -1
			for k := 0; k < 2; k++ {
				if e.slots[k] == nil {
					other = k
					break
				}
			}
			if other != -1 {
				e.slots[other] = p
			}
			e.mu.Unlock()
			if other != -1 {
				e.emitExecutingLocked(p, other)
			}
		}

		e.mu.Lock()
		e.cond.Broadcast()
		e.mu.Unlock()
	}
}

func (e *SchedulerEngine) dequeueForPolicy() *PCB {
	switch e.cfg.Policy {
	case Priority:
		return e.ready.DequeueHighestPriority()
	default:
		return e.ready.Dequeue()
	}
}

// emitExecutingLocked writes the policy-appropriate "executing" record
// for p freshly (re)placed onto slot k.
func (e *SchedulerEngine) emitExecutingLocked(p *PCB, slot int) {
	switch e.cfg.Policy {
	case FCFS:
		e.log.Essential("[FCFS] Executando processo PID %d // processador %d", p.PID, slot)
	case RoundRobin:
		e.log.Essential("[RR] Executando processo PID %d com quantum %dms // processador %d", p.PID, e.cfg.QuantumMS, slot)
	case Priority:
		e.log.Essential("[PRIORIDADE] Executando processo PID %d prioridade %d // processador %d", p.PID, p.Priority, slot)
	case CFS:
		e.log.Essential("[CFS] Executando processo PID %d // processador %d", p.PID, slot)
	}
}
