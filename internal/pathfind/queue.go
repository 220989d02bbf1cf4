package pathfind

import "github.com/vovakirdan/riftlane/internal/grid"

// node is one search state: a cell reached with a last move direction and a
// flag telling whether this branch has already entered the protected radius.
type node struct {
	cell    grid.Cell
	g       float64
	h       float64
	f       float64
	parent  *node
	dir     grid.Dir
	entered bool
	depth   int
	index   int
}

type stateKey struct {
	cell    grid.Cell
	dir     grid.Dir
	entered bool
}

func (n *node) key() stateKey {
	return stateKey{cell: n.cell, dir: n.dir, entered: n.entered}
}

// nodePool hands out nodes from fixed-size chunks so parent pointers stay
// valid for the whole search. One pool lives for exactly one search call.
type nodePool struct {
	chunks [][]node
	used   int
}

const poolChunk = 512

func (p *nodePool) get() *node {
	if len(p.chunks) == 0 || p.used == poolChunk {
		p.chunks = append(p.chunks, make([]node, poolChunk))
		p.used = 0
	}
	n := &p.chunks[len(p.chunks)-1][p.used]
	p.used++
	return n
}

// openQueue is a min-heap on f, breaking ties toward the lower heuristic.
type openQueue []*node

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].h < q[j].h
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *openQueue) Pop() any {
	old := *q
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*q = old[:last]
	return n
}
