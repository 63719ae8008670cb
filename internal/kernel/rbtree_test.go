package kernel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPCB(pid int, vruntime int64) *PCB {
	p := NewPCB(pid, 1000, 3, 1, 0)
	p.VRuntime = vruntime
	return p
}

func TestRBTreeInsertMaintainsInvariants(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	r := rand.New(rand.NewSource(1))
	nodes := make([]*PCB, 0, 200)
	for i := 0; i < 200; i++ {
		p := newTestPCB(i+1, int64(r.Intn(100000)))
		nodes = append(nodes, p)
		tr.Insert(p)
		assert.False(t, tr.root.rbRed, "root must be black after insert %d", i)
		assert.GreaterOrEqual(t, tr.blackHeight(), 0, "invariants violated after insert %d", i)
	}
	assert.Equal(t, 200, tr.Count())

	var prev int64 = -1
	tr.Inorder(func(p *PCB) {
		assert.GreaterOrEqual(t, p.VRuntime, prev)
		prev = p.VRuntime
	})
}

func TestRBTreeRemoveMaintainsInvariants(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	r := rand.New(rand.NewSource(2))
	nodes := make([]*PCB, 0, 150)
	for i := 0; i < 150; i++ {
		p := newTestPCB(i+1, int64(r.Intn(50000)))
		nodes = append(nodes, p)
		tr.Insert(p)
	}

	r.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	for i, n := range nodes {
		tr.Remove(n)
		assert.Nil(t, n.rbLeft)
		assert.Nil(t, n.rbRight)
		assert.Nil(t, n.rbParent)
		if !tr.Empty() {
			assert.False(t, tr.root.rbRed, "root must be black after remove %d", i)
			assert.GreaterOrEqual(t, tr.blackHeight(), 0, "invariants violated after remove %d", i)
		}
	}
	assert.True(t, tr.Empty())
	assert.Equal(t, 0, tr.Count())
}

func TestRBTreeRemovedNodeIsReinsertable(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	a := newTestPCB(1, 10)
	b := newTestPCB(2, 20)
	c := newTestPCB(3, 30)
	tr.Insert(a)
	tr.Insert(b)
	tr.Insert(c)

	tr.Remove(b)
	require.Equal(t, 2, tr.Count())

	b.VRuntime = 5
	tr.Insert(b)
	assert.Equal(t, 3, tr.Count())
	assert.Equal(t, b, tr.Leftmost())
}

func TestRBTreeLeftmostRightmost(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	assert.Nil(t, tr.Leftmost())
	assert.Nil(t, tr.Rightmost())

	vals := []int64{50, 10, 90, 30, 70, 5, 100}
	var nodes []*PCB
	for i, v := range vals {
		p := newTestPCB(i+1, v)
		nodes = append(nodes, p)
		tr.Insert(p)
	}
	assert.EqualValues(t, 5, tr.Leftmost().VRuntime)
	assert.EqualValues(t, 100, tr.Rightmost().VRuntime)
}

func TestRBTreeSearch(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	target := newTestPCB(7, 77)
	tr.Insert(newTestPCB(1, 10))
	tr.Insert(target)
	tr.Insert(newTestPCB(2, 20))

	found := tr.Search(&PCB{PID: 7, VRuntime: 77})
	require.NotNil(t, found)
	assert.Equal(t, target, found)

	assert.Nil(t, tr.Search(&PCB{PID: 99, VRuntime: 999}))
}

func TestRBTreeEmptyOnZeroNodes(t *testing.T) {
	tr := NewRBTree(vruntimeCmp)
	assert.True(t, tr.Empty())
	p := newTestPCB(1, 1)
	tr.Insert(p)
	assert.False(t, tr.Empty())
	tr.Remove(p)
	assert.True(t, tr.Empty())
}
