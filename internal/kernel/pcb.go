package kernel

import "sync"

// State is a process's position in its lifecycle (spec.md §3).
type State uint8

const (
	// Ready means the process is waiting to be dispatched onto a CPU.
	Ready State = iota
	// Running means the process currently occupies a CPU slot.
	Running
	// Finished means the process has consumed all of its remaining work.
	// Finished is terminal: remaining_ms never changes again.
	Finished
)

func (s State) String() string {
	switch s {
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Policy selects which scheduling algorithm drives the engine.
type Policy int

const (
	FCFS Policy = iota + 1
	RoundRobin
	Priority
	CFS
)

func (p Policy) String() string {
	switch p {
	case FCFS:
		return "FCFS"
	case RoundRobin:
		return "RR"
	case Priority:
		return "PRIORIDADE"
	case CFS:
		return "CFS"
	default:
		return "UNKNOWN"
	}
}

// PCB is a Process Control Block: one simulated process. Reads and writes
// of State, RemainingMS, and ShouldPreempt occur only while mu is held
// (spec.md §3 invariants). CFS tree links (left/right/parent/red) are
// meaningful only while the PCB is a current member of the CFS run queue.
type PCB struct {
	// Identity, immutable after construction.
	PID             int
	TotalDurationMS int64
	Priority        int // 1 (highest) .. 5 (lowest)
	ThreadCount     int
	ArrivalMS       int64

	mu            sync.Mutex
	cond          *sync.Cond
	RemainingMS   int64
	State         State
	ShouldPreempt bool

	// CFS fields. Valid only while State != Finished and the PCB
	// participates in a CFS run queue.
	VRuntime      int64
	Weight        int64
	StartVRuntime int64

	// Red-black tree links; owned exclusively by whichever CFSRunqueue
	// currently holds this PCB (spec.md §9: tree nodes are the PCBs
	// themselves, no auxiliary allocation).
	rbLeft, rbRight, rbParent *PCB
	rbRed                     bool

	// Threads holds the TCB of each worker thread this process owns.
	// Populated by StartWorkers when the process is admitted (spec.md §4.6).
	Threads []*TCB

	// rqNext links PCBs inside the ready queue's singly linked list.
	rqNext *PCB
}

// NewPCB constructs a PCB in the Ready state with RemainingMS equal to
// TotalDurationMS, as required by spec.md §3.
func NewPCB(pid int, totalDurationMS int64, priority int, threadCount int, arrivalMS int64) *PCB {
	p := &PCB{
		PID:             pid,
		TotalDurationMS: totalDurationMS,
		Priority:        priority,
		ThreadCount:     threadCount,
		ArrivalMS:       arrivalMS,
		RemainingMS:     totalDurationMS,
		State:           Ready,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Lock acquires the PCB's exclusive lock. State, RemainingMS, and
// ShouldPreempt must only be read or written while holding it.
func (p *PCB) Lock() { p.mu.Lock() }

// Unlock releases the PCB's exclusive lock.
func (p *PCB) Unlock() { p.mu.Unlock() }

// Broadcast wakes every goroutine waiting on the PCB's condition variable.
// Callers must hold the PCB lock.
func (p *PCB) Broadcast() { p.cond.Broadcast() }

// Wait blocks on the PCB's condition variable. Callers must hold the PCB
// lock; Wait releases it while blocked and reacquires it before returning.
func (p *PCB) Wait() { p.cond.Wait() }

// setRunningLocked transitions the PCB to Running and wakes its workers.
// Callers must hold the PCB lock.
func (p *PCB) setRunningLocked() {
	p.State = Running
	p.cond.Broadcast()
}

// setReadyLocked transitions a preempted PCB back to Ready. Per spec.md
// §3, this transition is only valid when RemainingMS > 0.
func (p *PCB) setReadyLocked() {
	p.State = Ready
	p.ShouldPreempt = false
}

// finishLocked transitions the PCB to Finished. Finished is terminal; the
// caller must hold the PCB lock.
func (p *PCB) finishLocked() {
	p.State = Finished
	p.RemainingMS = 0
	p.cond.Broadcast()
}

// debitLocked decrements RemainingMS by at most ms, clamping at zero, and
// transitions to Finished if that exhausts the process. Caller holds the
// PCB lock. Returns true if this debit finished the process.
func (p *PCB) debitLocked(ms int64) bool {
	if ms > p.RemainingMS {
		ms = p.RemainingMS
	}
	p.RemainingMS -= ms
	if p.RemainingMS == 0 {
		p.finishLocked()
		return true
	}
	return false
}

// snapshotState returns State and RemainingMS under the PCB lock, for
// callers that only need to observe rather than mutate.
func (p *PCB) snapshotState() (State, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State, p.RemainingMS
}

// TCB is a Thread Control Block: a worker thread's handle on its PCB and
// its zero-based index within that process (spec.md §3).
type TCB struct {
	Process *PCB
	Index   int
}
