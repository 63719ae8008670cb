package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCFSRunqueueEnqueueClampsToMinVRuntime(t *testing.T) {
	rq := NewCFSRunqueue()

	a := NewPCB(1, 5000, 2, 1, 0)
	rq.Enqueue(a)
	got := rq.PickNext()
	require.Equal(t, a, got)
	rq.PutPrev(got, 10_000)

	b := NewPCB(2, 5000, 2, 1, 0)
	rq.Enqueue(b)
	assert.GreaterOrEqual(t, b.VRuntime, rq.MinVRuntime())
}

func TestCFSRunqueuePicksLowestVRuntime(t *testing.T) {
	rq := NewCFSRunqueue()
	a := NewPCB(1, 5000, 2, 1, 0)
	a.VRuntime = 100
	b := NewPCB(2, 5000, 2, 1, 0)
	b.VRuntime = 50
	c := NewPCB(3, 5000, 2, 1, 0)
	c.VRuntime = 75

	a.Weight = weightForPriority(a.Priority)
	b.Weight = weightForPriority(b.Priority)
	c.Weight = weightForPriority(c.Priority)
	rq.tree.Insert(a)
	rq.tree.Insert(b)
	rq.tree.Insert(c)
	rq.nrRunning = 3
	rq.totalWeight = a.Weight + b.Weight + c.Weight

	got := rq.PickNext()
	assert.Equal(t, b, got)
}

func TestCFSRunqueuePutPrevChargesVRuntimeInverselyToWeight(t *testing.T) {
	rq := NewCFSRunqueue()
	heavy := NewPCB(1, 5000, 1, 1, 0) // priority 1 -> high weight
	light := NewPCB(2, 5000, 5, 1, 0) // priority 5 -> lower weight
	rq.Enqueue(heavy)
	rq.Enqueue(light)
	rq.PickNext()
	rq.PickNext()

	const runtimeNS = 1_000_000
	reinsertedHeavy := rq.PutPrev(heavy, runtimeNS)
	reinsertedLight := rq.PutPrev(light, runtimeNS)

	require.True(t, reinsertedHeavy)
	require.True(t, reinsertedLight)
	assert.Greater(t, light.VRuntime, heavy.VRuntime,
		"lower-weight process should accumulate vruntime faster")
}

func TestCFSRunqueuePutPrevDoesNotReinsertFinishedProcess(t *testing.T) {
	rq := NewCFSRunqueue()
	p := NewPCB(1, 100, 3, 1, 0)
	rq.Enqueue(p)
	rq.PickNext()

	p.Lock()
	p.debitLocked(100)
	p.Unlock()

	reinserted := rq.PutPrev(p, 100_000)
	assert.False(t, reinserted)
	assert.Equal(t, 0, rq.NrRunning())
}

func TestCFSRunqueueTimesliceFloor(t *testing.T) {
	rq := NewCFSRunqueue()
	p := NewPCB(1, 5000, 40, 1, 0) // priority clamps beyond table bound
	rq.Enqueue(p)

	many := NewPCB(2, 5000, 39, 1, 0)
	rq.Enqueue(many)

	ts := rq.Timeslice(p)
	assert.GreaterOrEqual(t, ts, int64(minTimesliceUS))
}

func TestCFSRunqueueTimesliceWithNoLoad(t *testing.T) {
	rq := NewCFSRunqueue()
	p := NewPCB(1, 5000, 3, 1, 0)
	p.Weight = weightForPriority(p.Priority)
	assert.Equal(t, int64(schedLatencyUS), rq.Timeslice(p))
}

func TestCFSRunqueueHasProcesses(t *testing.T) {
	rq := NewCFSRunqueue()
	assert.False(t, rq.HasProcesses())
	p := NewPCB(1, 5000, 3, 1, 0)
	rq.Enqueue(p)
	assert.True(t, rq.HasProcesses())
	rq.PickNext()
	assert.False(t, rq.HasProcesses())
}

func TestWeightForPriorityClampsToTableBounds(t *testing.T) {
	assert.Equal(t, weightTable[0], weightForPriority(-5))
	assert.Equal(t, weightTable[39], weightForPriority(1000))
	assert.Equal(t, weightTable[20], weightForPriority(20))
}
