package pathfinder

// Costs per edge, in ticks, per spec.md section 4.9 "Costs".
const (
	walkCost       = 1 / 0.19
	sprintCost     = 1 / 0.26
	jumpPenalty    = 0.5
	fallCenterCost = 0.2
)

// MoveKind names the category of movement an Edge represents, consumed by
// the execution system to pick which input-vector/look/jump/mining events to
// emit.
type MoveKind int

const (
	MoveWalk MoveKind = iota
	MoveDiagonal
	MoveStepUp
	MoveStepDown
	MoveFall
	MoveSprintJump2
	MoveSprintJump3
	MoveMine
)

// Edge is one traversable step from a node to an adjacent node, carrying the
// move's execution behaviour rather than the concrete in-tick logic itself
// (that lives in execution.go, parameterised by Kind/Target so it can be
// re-evaluated during obstruction patching without re-running the search).
type Edge struct {
	Kind   MoveKind
	Target Pos
	Cost   float64
	// MineTarget is the block position that must be broken before this edge
	// is reached, set only for MoveMine.
	MineTarget Pos
}

// Options controls which successor moves the search may generate.
type Options struct {
	AllowMining bool
	Hotbar      []int32
}

// successors enumerates the edges leaving from, querying q for collision
// and (when enabled) mining cost, per spec.md section 4.9 "Graph": "straight
// walks, diagonal walks, one-up/one-down step-ups and step-downs, descending
// falls, sprint-jumps (2- and 3-block gap, optional 1-block ascend), and
// optionally mining moves".
func successors(q WorldQuery, from Pos, opt Options) []Edge {
	var edges []Edge

	cardinal := [4]Pos{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}
	diagonal := [4]Pos{{X: 1, Z: 1}, {X: 1, Z: -1}, {X: -1, Z: 1}, {X: -1, Z: -1}}

	for _, d := range cardinal {
		edges = append(edges, straightEdges(q, from, d, opt)...)
	}
	for _, d := range diagonal {
		if e, ok := diagonalEdge(q, from, d); ok {
			edges = append(edges, e)
		}
	}
	edges = append(edges, fallEdges(q, from)...)
	edges = append(edges, sprintJumpEdges(q, from)...)
	return edges
}

// standable reports whether an entity could occupy pos: the block itself and
// the block above it (a 2-block-tall hitbox) must both be non-solid, and the
// block below must be solid to stand on.
func standable(q WorldQuery, pos Pos) bool {
	feet := pos
	head := Pos{pos.X, pos.Y + 1, pos.Z}
	below := Pos{pos.X, pos.Y - 1, pos.Z}
	return !q.Solid(feet) && !q.Solid(head) && q.Solid(below)
}

// straightEdges generates the walk, step-up, step-down and mine variants of
// moving one block in direction d.
func straightEdges(q WorldQuery, from Pos, d Pos, opt Options) []Edge {
	var edges []Edge
	level := from.Add(d)
	if standable(q, level) {
		edges = append(edges, Edge{Kind: MoveWalk, Target: level, Cost: walkCost})
	} else if opt.AllowMining {
		if e, ok := mineEdge(q, from, level, opt); ok {
			edges = append(edges, e)
		}
	}

	up := Pos{level.X, level.Y + 1, level.Z}
	if standable(q, up) {
		edges = append(edges, Edge{Kind: MoveStepUp, Target: up, Cost: walkCost + jumpPenalty})
	}

	down := Pos{level.X, level.Y - 1, level.Z}
	if standable(q, down) {
		edges = append(edges, Edge{Kind: MoveStepDown, Target: down, Cost: walkCost})
	}
	return edges
}

// diagonalEdge requires both flanking cardinal cells clear at the source
// level, the vanilla diagonal-movement corner rule.
func diagonalEdge(q WorldQuery, from Pos, d Pos) (Edge, bool) {
	target := from.Add(d)
	flankX := Pos{target.X, from.Y, from.Z}
	flankZ := Pos{from.X, from.Y, target.Z}
	if q.Solid(Pos{flankX.X, flankX.Y, flankX.Z}) || q.Solid(Pos{flankZ.X, flankZ.Y, flankZ.Z}) {
		return Edge{}, false
	}
	if !standable(q, target) {
		return Edge{}, false
	}
	return Edge{Kind: MoveDiagonal, Target: target, Cost: walkCost * 1.41}, true
}

// fallEdges walks downward from a cardinal-adjacent column looking for the
// first standable landing, up to a bounded descent, per spec.md's
// "descending falls".
const maxFallDepth = 20

func fallEdges(q WorldQuery, from Pos) []Edge {
	var edges []Edge
	for _, d := range [4]Pos{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}} {
		col := from.Add(d)
		if q.Solid(col) {
			continue
		}
		for depth := int32(2); depth <= maxFallDepth; depth++ {
			landing := Pos{col.X, col.Y - depth, col.Z}
			if standable(q, landing) {
				edges = append(edges, Edge{
					Kind:   MoveFall,
					Target: landing,
					Cost:   walkCost + float64(depth)*0.1 + fallCenterCost,
				})
				break
			}
			if q.Solid(landing) {
				break
			}
		}
	}
	return edges
}

// sprintJumpEdges generates the 2- and 3-block horizontal gap jumps, each
// optionally landing one block above the source, per spec.md's "sprint-jumps
// (2- and 3-block gap, optional 1-block ascend)".
func sprintJumpEdges(q WorldQuery, from Pos) []Edge {
	var edges []Edge
	for _, d := range [4]Pos{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}} {
		for gap := int32(2); gap <= 3; gap++ {
			kind := MoveSprintJump2
			if gap == 3 {
				kind = MoveSprintJump3
			}
			for _, ascend := range [2]int32{0, 1} {
				target := Pos{from.X + d.X*gap, from.Y + ascend, from.Z + d.Z*gap}
				if !gapClear(q, from, d, gap, ascend) {
					continue
				}
				if !standable(q, target) {
					continue
				}
				cost := sprintCost*float64(gap) + jumpPenalty
				edges = append(edges, Edge{Kind: kind, Target: target, Cost: cost})
			}
		}
	}
	return edges
}

// gapClear checks that every intermediate column along a sprint-jump's path
// is free of head-height obstructions, so the entity doesn't clip a
// low-ceiling block mid-jump.
func gapClear(q WorldQuery, from Pos, d Pos, gap, ascend int32) bool {
	for i := int32(1); i < gap; i++ {
		head := Pos{from.X + d.X*i, from.Y + 1 + ascend, from.Z + d.Z*i}
		if q.Solid(head) {
			return false
		}
	}
	return true
}

// mineEdge estimates the cost of breaking the block at level and landing on
// it, per spec.md's "Mining = block-hardness-based estimate using the best
// tool in the hotbar".
func mineEdge(q WorldQuery, from, level Pos, opt Options) (Edge, bool) {
	h := q.Hardness(level, opt.Hotbar)
	if h < 0 {
		return Edge{}, false
	}
	return Edge{Kind: MoveMine, Target: level, Cost: walkCost + h, MineTarget: level}, true
}
