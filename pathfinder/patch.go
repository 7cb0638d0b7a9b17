package pathfinder

import "log/slog"

// truncateWithin is how close to the path's end an obstruction must be
// found before the path is simply truncated rather than patched, per
// spec.md section 4.9 "Obstruction patching": "if within 5 nodes of the
// end: truncate and mark the path partial."
const truncateWithin = 5

// patchWindow and patchMaxNodes bound the local re-search spliced in for a
// mid-path obstruction, per spec.md: "recompute a small local patch (≈20
// nodes) with a tight A* timeout (nodes=10_000)."
const (
	patchWindow   = 20
	patchMaxNodes = 10_000
)

// Patch re-evaluates the still-queued portion of p against q, splicing in a
// local A* re-route around the first edge whose cost changed or which
// disappeared, per spec.md section 4.9's obstruction-patching rule. Called
// once per tick while a path is active.
func Patch(p *Path, q WorldQuery, opt Options, log *slog.Logger) {
	if p.Done() {
		return
	}
	idx, ok := firstObstructed(p, q, opt)
	if !ok {
		return
	}
	remaining := len(p.Edges) - idx
	if remaining <= truncateWithin {
		log.Info("pathfinder: truncating obstructed path", "index", idx, "remaining", remaining)
		p.Edges = p.Edges[:idx]
		p.Partial = true
		if p.Index > len(p.Edges) {
			p.Index = len(p.Edges)
		}
		return
	}

	origin := p.Origin
	if idx > 0 {
		origin = p.Edges[idx-1].Target
	}
	windowEnd := idx + patchWindow
	if windowEnd > len(p.Edges) {
		windowEnd = len(p.Edges)
	}
	goalPos := p.Edges[windowEnd-1].Target

	res := Search(Run{
		Start:   origin,
		Goal:    func(pos Pos) bool { return pos == goalPos },
		Heur:    manhattan(goalPos),
		Query:   q,
		Options: opt,
		Max:     Timeout{Nodes: patchMaxNodes},
	})
	if len(res.Edges) == 0 {
		log.Warn("pathfinder: obstruction patch found no route, truncating", "index", idx)
		p.Edges = p.Edges[:idx]
		p.Partial = true
		if p.Index > len(p.Edges) {
			p.Index = len(p.Edges)
		}
		return
	}

	newEdges := make([]Edge, 0, idx+len(res.Edges)+(len(p.Edges)-windowEnd))
	newEdges = append(newEdges, p.Edges[:idx]...)
	newEdges = append(newEdges, res.Edges...)
	newEdges = append(newEdges, p.Edges[windowEnd:]...)
	p.Edges = newEdges
	if res.Partial {
		p.Partial = true
	}
}

// firstObstructed walks the queued edges from the last reached node,
// re-running successors at each step and comparing against the stored
// edge; it returns the index of the first edge whose cost rose or which no
// longer appears.
func firstObstructed(p *Path, q WorldQuery, opt Options) (int, bool) {
	from := p.Origin
	if p.Index > 0 {
		from = p.Edges[p.Index-1].Target
	}
	for i := p.Index; i < len(p.Edges); i++ {
		want := p.Edges[i]
		found := false
		for _, e := range successors(q, from, opt) {
			if e.Target == want.Target && e.Kind == want.Kind {
				found = true
				if e.Cost > want.Cost {
					return i, true
				}
				break
			}
		}
		if !found {
			return i, true
		}
		from = want.Target
	}
	return 0, false
}

// manhattan builds a Heuristic from the Manhattan distance scaled by the
// sprinting per-block cost. It is not admissible for this move set:
// diagonal, step and fall edges cost less than sprintCost per unit of
// Manhattan distance (a diagonal costs walkCost*1.41, about 7.42, against
// an estimate of about 7.69), so it can overestimate.
func manhattan(goal Pos) Heuristic {
	return func(pos Pos) float32 {
		dx, dy, dz := abs32(pos.X-goal.X), abs32(pos.Y-goal.Y), abs32(pos.Z-goal.Z)
		return float32(dx+dy+dz) * float32(sprintCost)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
