package kernel

import "sync"

// schedLatencyUS is the scheduling period the CFS runqueue divides among
// its runnable processes (spec.md §4.3), reproducing
// original_source/src/cfs.c's cfs_calculate_timeslice constant.
const schedLatencyUS = 20_000

// minTimesliceUS is the floor timeslice below which no process's share is
// allowed to shrink further (spec.md §4.3).
const minTimesliceUS = 1000

// weightTable reproduces the Linux CFS nice-to-weight table used by
// original_source/src/cfs.c's prio_to_weight array. Index 20 is weight
// 1024, the baseline. Input priorities are clamped to [0, 39].
var weightTable = [40]int64{
	88761, 71755, 56483, 46273, 36291,
	29154, 23254, 18705, 14949, 11916,
	9548, 7620, 6100, 4904, 3906,
	3121, 2501, 1991, 1586, 1277,
	1024, 820, 655, 526, 423,
	335, 272, 215, 172, 137,
	110, 87, 70, 56, 45,
	36, 29, 23, 18, 15,
}

// vruntimeCmp orders PCBs by ascending vruntime, breaking ties by PID so
// the comparator is a strict total order (spec.md §4.3 "Ordered by
// vruntime ascending").
func vruntimeCmp(a, b *PCB) int {
	switch {
	case a.VRuntime < b.VRuntime:
		return -1
	case a.VRuntime > b.VRuntime:
		return 1
	default:
		return a.PID - b.PID
	}
}

func weightForPriority(priority int) int64 {
	if priority < 0 {
		priority = 0
	}
	if priority > 39 {
		priority = 39
	}
	return weightTable[priority]
}

// CFSRunqueue wraps an RB-tree keyed by vruntime with the aggregates the
// Completely Fair Scheduler policy needs (spec.md §4.3). Only the
// scheduler task mutates it (spec.md §5).
type CFSRunqueue struct {
	mu          sync.Mutex
	tree        *RBTree
	minVRuntime int64
	totalWeight int64
	nrRunning   int
}

// NewCFSRunqueue returns an empty CFS runqueue.
func NewCFSRunqueue() *CFSRunqueue {
	rq := &CFSRunqueue{}
	rq.tree = NewRBTree(vruntimeCmp)
	return rq
}

// Enqueue admits p. Per spec.md §4.3: weight is (re)derived from priority,
// vruntime is clamped up to min_vruntime so a newcomer cannot starve
// incumbents, and the aggregates are updated after insertion.
func (rq *CFSRunqueue) Enqueue(p *PCB) {
	rq.mu.Lock()
	defer rq.mu.Unlock()

	p.Weight = weightForPriority(p.Priority)
	if p.VRuntime < rq.minVRuntime {
		p.VRuntime = rq.minVRuntime
	}
	rq.tree.Insert(p)
	rq.totalWeight += p.Weight
	rq.nrRunning++
}

// PickNext removes and returns the leftmost (lowest-vruntime, most
// under-served) PCB, or nil if the runqueue is empty.
func (rq *CFSRunqueue) PickNext() *PCB {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	n := rq.tree.Leftmost()
	if n == nil {
		return nil
	}
	rq.tree.Remove(n)
	rq.totalWeight -= n.Weight
	rq.nrRunning--
	return n
}

// PutPrev charges p for runtimeNS of execution and, if it still has
// remaining work, reinserts it (spec.md §4.3). It reports whether p was
// reinserted.
func (rq *CFSRunqueue) PutPrev(p *PCB, runtimeNS int64) bool {
	weighted := (runtimeNS * 1024) / p.Weight
	p.VRuntime += weighted

	// Read p's own state before taking the runqueue lock: the runqueue
	// lock must never be held across a PCB lock acquisition (spec.md §5).
	_, remaining := p.snapshotState()

	rq.mu.Lock()
	defer rq.mu.Unlock()

	if p.VRuntime < rq.minVRuntime {
		rq.minVRuntime = p.VRuntime
	}

	if remaining <= 0 {
		return false
	}

	rq.tree.Insert(p)
	rq.totalWeight += p.Weight
	rq.nrRunning++
	return true
}

// Timeslice computes p's share of schedLatencyUS proportional to its
// weight over the runqueue's total weight, floored at minTimesliceUS.
func (rq *CFSRunqueue) Timeslice(p *PCB) int64 {
	rq.mu.Lock()
	total := rq.totalWeight
	rq.mu.Unlock()

	if total == 0 {
		return schedLatencyUS
	}
	ts := (schedLatencyUS * p.Weight) / total
	if ts < minTimesliceUS {
		return minTimesliceUS
	}
	return ts
}

// HasProcesses reports whether any PCB is currently waiting in the
// runqueue.
func (rq *CFSRunqueue) HasProcesses() bool {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.nrRunning > 0
}

// NrRunning returns the current runqueue population, for tests asserting
// the nr_running == node_count(root) invariant (spec.md §3).
func (rq *CFSRunqueue) NrRunning() int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.nrRunning
}

// MinVRuntime returns the runqueue's current lower bound for newcomer
// vruntime.
func (rq *CFSRunqueue) MinVRuntime() int64 {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.minVRuntime
}

// Cleanup drops every remaining member of the runqueue, for engine
// shutdown. It does not reset min_vruntime, which keeps the lowest value
// PutPrev has recorded.
func (rq *CFSRunqueue) Cleanup() {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	rq.tree = NewRBTree(vruntimeCmp)
	rq.totalWeight = 0
	rq.nrRunning = 0
}
