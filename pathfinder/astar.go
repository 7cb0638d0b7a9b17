package pathfinder

import (
	"container/heap"
	"time"

	"github.com/brentp/intintmap"
)

// Heuristic estimates the remaining cost from pos to a goal; admissible
// heuristics make the non-partial result optimal, per spec.md section 8's
// A* properties.
type Heuristic func(pos Pos) float32

// GoalFunc reports whether pos satisfies the search's goal.
type GoalFunc func(pos Pos) bool

// Timeout expresses a search budget as either elapsed wall time or a node
// expansion count, per spec.md section 4.9 "Timeouts ... Each expressed as
// either elapsed duration or number of expanded nodes."
type Timeout struct {
	Duration time.Duration
	Nodes    int
}

func (t Timeout) exceeded(elapsed time.Duration, expanded int) bool {
	if t.Duration > 0 && elapsed >= t.Duration {
		return true
	}
	if t.Nodes > 0 && expanded >= t.Nodes {
		return true
	}
	return false
}

// Run bundles the inputs a single Search call needs.
type Run struct {
	Start   Pos
	Goal    GoalFunc
	Heur    Heuristic
	Query   WorldQuery
	Options Options
	Min     Timeout
	Max     Timeout
}

// partialCoefficients is the coefficient set spec.md section 4.9 names for
// tracking the seven best partial goals: "{1.5, 2, 2.5, 3, 4, 5, 10} of
// h + g/coef".
var partialCoefficients = [7]float64{1.5, 2, 2.5, 3, 4, 5, 10}

// record is one A*-tracked node: its best known predecessor and cost-so-far,
// plus whether it currently sits in the open heap (closed nodes are kept for
// reopening via a g-score decrease, per spec.md's "Reopen via g-score
// decrease").
type record struct {
	pos      Pos
	cameFrom int // index into nodes, or -1 for the start
	g        float64
	h        float32
	open     bool
	index    int // heap index, maintained by container/heap

	// viaKind/viaCost record which successor edge reached this node with
	// its current g, so reconstruct can emit exact Edge values rather than
	// re-deriving a move kind from displacement alone.
	viaKind       MoveKind
	viaCost       float64
	viaMineTarget Pos
}

// openHeap is a binary min-heap ordered by f = g + h, the priority queue
// spec.md section 4.9 calls for ("A* with a binary-heap open set"). No
// priority-queue library exists anywhere in the retrieval pack, so this uses
// container/heap, the stdlib's own idiomatic binary-heap adapter.
type openHeap []*record

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	return h[i].g+float64(h[i].h) < h[j].g+float64(h[j].h)
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	r := x.(*record)
	r.index = len(*h)
	*h = append(*h, r)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return r
}

// table maps Pos to its *record, backed by intintmap's open-addressed
// int64->int64 map (the same dependency world/chunk/palette.go already uses
// for its id index) keyed by Pos.key(), storing an index into a parallel
// slice of *record since intintmap only stores int64 values, not pointers.
type table struct {
	idx   *intintmap.Map
	nodes []*record
}

func newTable() *table {
	return &table{idx: intintmap.New(64, 0.75)}
}

func (t *table) get(p Pos) (*record, bool) {
	i, ok := t.idx.Get(p.key())
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

func (t *table) put(r *record) {
	t.idx.Put(r.pos.key(), int64(len(t.nodes)))
	t.nodes = append(t.nodes, r)
}

// Result is the outcome of a Search.
type Result struct {
	Path    []Pos
	Edges   []Edge
	Partial bool
}

// Search runs A* from run.Start per spec.md section 4.9/8: a binary-heap
// open set, a stable position->record map supporting g-score-decrease
// reopening, never expanding a stale heap entry (detected by the popped
// record's open flag already being false), partial-goal tracking by
// the seven-coefficient set, and the dual min/max timeout with partial-path
// fallback.
func Search(run Run) Result {
	start := time.Now()
	nodes := newTable()
	startRec := &record{pos: run.Start, cameFrom: -1, g: 0, h: run.Heur(run.Start), open: true}
	nodes.put(startRec)

	open := &openHeap{startRec}
	heap.Init(open)

	var best [7]*record // best record per partialCoefficients index
	expanded := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*record)
		if !cur.open {
			continue // stale entry: this position was already closed with a lower g
		}
		cur.open = false
		expanded++
		updateBest(&best, cur)

		if run.Goal(cur.pos) {
			path, edges := reconstruct(nodes, cur)
			return Result{Path: path, Edges: edges, Partial: false}
		}

		elapsed := time.Since(start)
		if run.Max.exceeded(elapsed, expanded) {
			break
		}
		// The minimum timeout, per spec.md section 4.9, "ends the search as
		// soon as any non-empty path is found": once elapsed, stop as soon
		// as some node besides the start has been reached, rather than
		// running all the way to the maximum timeout.
		if run.Min.exceeded(elapsed, expanded) && hasProgress(&best, run.Start) {
			break
		}

		for _, e := range successors(run.Query, cur.pos, run.Options) {
			neighbor, ok := nodes.get(e.Target)
			g := cur.g + e.Cost
			if !ok {
				neighbor = &record{pos: e.Target, cameFrom: -1, g: g, h: run.Heur(e.Target)}
				nodes.put(neighbor)
				setCameFrom(nodes, neighbor, cur, e)
				neighbor.open = true
				heap.Push(open, neighbor)
				continue
			}
			if g < neighbor.g {
				neighbor.g = g
				setCameFrom(nodes, neighbor, cur, e)
				if neighbor.open {
					heap.Fix(open, neighbor.index)
				} else {
					neighbor.open = true
					heap.Push(open, neighbor)
				}
			}
		}
	}

	return partialResult(nodes, &best, run.Start)
}

// setCameFrom stores cur's index as neighbor's predecessor, plus the edge
// kind/cost that achieved it, so reconstruct can rebuild exact Edge values.
func setCameFrom(nodes *table, neighbor, cur *record, via Edge) {
	i, _ := nodes.idx.Get(cur.pos.key())
	neighbor.cameFrom = int(i)
	neighbor.viaKind = via.Kind
	neighbor.viaCost = via.Cost
	neighbor.viaMineTarget = via.MineTarget
}

// updateBest tracks, for each partial-goal coefficient, the record
// minimising h + g/coef, per spec.md section 4.9.
func updateBest(best *[7]*record, cur *record) {
	for i, coef := range partialCoefficients {
		score := func(r *record) float64 { return float64(r.h) + r.g/coef }
		if best[i] == nil || score(cur) < score(best[i]) {
			best[i] = cur
		}
	}
}

// hasProgress reports whether any tracked partial-goal record has moved
// past the start position.
func hasProgress(best *[7]*record, start Pos) bool {
	for _, r := range best {
		if r != nil && r.pos != start {
			return true
		}
	}
	return false
}

// partialResult returns the best available partial path once the search has
// given up, per spec.md: "return the best available partial from the lowest
// coefficient whose best node isn't the start."
func partialResult(nodes *table, best *[7]*record, start Pos) Result {
	for _, r := range best {
		if r != nil && r.pos != start {
			path, edges := reconstruct(nodes, r)
			return Result{Path: path, Edges: edges, Partial: true}
		}
	}
	return Result{Partial: true}
}

// reconstruct walks cameFrom links back to the start, per spec.md section 8:
// "reconstruct_path never yields a movement whose target equals its
// predecessor" — guaranteed here since every successor edge changes Pos.
func reconstruct(nodes *table, goal *record) ([]Pos, []Edge) {
	var path []Pos
	var edges []Edge
	for r := goal; r != nil; {
		path = append(path, r.pos)
		if r.cameFrom < 0 {
			break
		}
		edges = append(edges, Edge{Kind: r.viaKind, Target: r.pos, Cost: r.viaCost, MineTarget: r.viaMineTarget})
		r = nodes.nodes[r.cameFrom]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return path, edges
}
