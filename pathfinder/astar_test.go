package pathfinder

import "testing"

// gridQuery is a WorldQuery backed by an explicit set of solid block
// positions, used to exercise the spec.md section 8 end-to-end scenarios
// without a real world.World.
type gridQuery struct {
	solid map[Pos]bool
}

func newGrid(solid ...Pos) *gridQuery {
	g := &gridQuery{solid: map[Pos]bool{}}
	for _, p := range solid {
		g.solid[p] = true
	}
	return g
}

func (g *gridQuery) Solid(pos Pos) bool        { return g.solid[pos] }
func (g *gridQuery) Hardness(Pos, []int32) float64 { return -1 }

func TestSearch_SimpleForward(t *testing.T) {
	g := newGrid(Pos{0, 70, 0}, Pos{0, 70, 1})
	start := Pos{0, 71, 0}
	goal := Pos{0, 71, 1}
	res := Search(Run{
		Start: start,
		Goal:  GoalBlock(goal),
		Heur:  Manhattan(goal),
		Query: g,
		Max:   DefaultMaxTimeout,
	})
	if res.Partial {
		t.Fatalf("expected a complete path, got partial")
	}
	if len(res.Path) == 0 || res.Path[len(res.Path)-1] != goal {
		t.Fatalf("path did not reach goal: %v", res.Path)
	}
}

func TestSearch_DiagonalWithWalls(t *testing.T) {
	g := newGrid(
		Pos{0, 70, 0}, Pos{1, 70, 1}, Pos{2, 70, 2},
		Pos{1, 72, 0}, Pos{2, 72, 1},
	)
	start := Pos{0, 71, 0}
	goal := Pos{2, 71, 2}
	res := Search(Run{
		Start: start,
		Goal:  GoalBlock(goal),
		Heur:  Manhattan(goal),
		Query: g,
		Max:   DefaultMaxTimeout,
	})
	if len(res.Path) == 0 || res.Path[len(res.Path)-1] != goal {
		t.Fatalf("path did not reach goal: %v (partial=%v)", res.Path, res.Partial)
	}
}

func TestSearch_GivesUpReturnsPartial(t *testing.T) {
	g := newGrid(Pos{0, 70, 0}) // an isolated platform with no route onward
	start := Pos{0, 71, 0}
	goal := Pos{100, 71, 100}
	res := Search(Run{
		Start: start,
		Goal:  GoalBlock(goal),
		Heur:  Manhattan(goal),
		Query: g,
		Max:   Timeout{Nodes: 500},
	})
	if !res.Partial {
		t.Fatalf("expected partial result when goal is unreachable")
	}
}

func TestReconstruct_NoSelfEdge(t *testing.T) {
	g := newGrid(Pos{0, 70, 0}, Pos{0, 70, 1}, Pos{0, 70, 2})
	start := Pos{0, 71, 0}
	goal := Pos{0, 71, 2}
	res := Search(Run{Start: start, Goal: GoalBlock(goal), Heur: Manhattan(goal), Query: g, Max: DefaultMaxTimeout})
	for i, e := range res.Edges {
		prev := start
		if i > 0 {
			prev = res.Edges[i-1].Target
		}
		if e.Target == prev {
			t.Fatalf("edge %d targets its own predecessor: %v", i, e)
		}
	}
}
