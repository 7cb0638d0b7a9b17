package pathfinder

import "time"

// DefaultMinTimeout and DefaultMaxTimeout match the scenario timings spec.md
// section 8's end-to-end scenarios exercise (tens of ticks at 20 Hz); a
// caller running a longer goal (e.g. scenario 4's 120-tick ascent) should
// pass its own Timeout values instead.
var (
	DefaultMinTimeout = Timeout{Duration: 200 * time.Millisecond}
	DefaultMaxTimeout = Timeout{Duration: 2 * time.Second}
)

// FindPath runs a full A* search from start to goal and, if a route was
// found (partial or not), returns it as an executable Path. A nil Path
// means the search produced nothing usable (search gave up before reaching
// even one node beyond start).
func FindPath(q WorldQuery, start Pos, goal GoalFunc, heur Heuristic, opt Options, min, max Timeout) *Path {
	res := Search(Run{
		Start:   start,
		Goal:    goal,
		Heur:    heur,
		Query:   q,
		Options: opt,
		Min:     min,
		Max:     max,
	})
	if len(res.Edges) == 0 {
		return nil
	}
	return &Path{Origin: start, Edges: res.Edges, Partial: res.Partial}
}

// GoalBlock returns a GoalFunc matching a single exact block position, the
// common case for "walk to (x,y,z)" requests.
func GoalBlock(target Pos) GoalFunc {
	return func(pos Pos) bool { return pos == target }
}

// Manhattan builds the Manhattan-distance heuristic toward target (see
// manhattan). It can overestimate for diagonal, step and fall moves, so a
// non-partial path found with it does not always have the minimum cost.
func Manhattan(target Pos) Heuristic { return manhattan(target) }
