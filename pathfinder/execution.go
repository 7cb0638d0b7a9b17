package pathfinder

import (
	"log/slog"
)

// Intent is the set of per-tick input events an edge's execution emits,
// consumed by later systems that translate them into input-vector updates
// and packet emissions, per spec.md section 4.9 "Execution": "invokes
// execute(ctx), which emits look/walk/sprint/jump/start-mining events".
type Intent struct {
	LookAt      *Pos
	Walk        bool
	Sprint      bool
	Jump        bool
	StartMining *Pos
}

// EntityState is the minimal per-tick state the execution system reads to
// decide whether an edge's target has been reached.
type EntityState struct {
	Pos      Pos
	OnGround bool
}

// Path is an active, in-progress route: a sequence of edges plus the index
// of the next one to execute.
type Path struct {
	Origin Pos
	Edges  []Edge
	Index  int
	Partial bool

	// miningStarted marks a MoveMine edge's block-broken wait as begun,
	// cleared once BlockBroken is called for that edge's MineTarget.
	miningStarted bool
}

// Done reports whether every edge in the path has been executed.
func (p *Path) Done() bool { return p.Index >= len(p.Edges) }

// Current returns the edge currently being executed, or ok=false if Done.
func (p *Path) Current() (Edge, bool) {
	if p.Done() {
		return Edge{}, false
	}
	return p.Edges[p.Index], true
}

// reachedTarget is the is_reached predicate the execution loop tests, per
// spec.md: proximity to the edge's target block, standing on/within it.
func reachedTarget(e Edge, st EntityState) bool {
	if e.Kind == MoveMine {
		return false // mining edges are only advanced via BlockBroken.
	}
	return st.Pos == e.Target
}

// Step runs one tick of path execution, per spec.md section 4.9
// "Execution": "examines the current edge's is_reached; if true, pops the
// edge and advances; otherwise invokes execute(ctx)". Returns the Intent to
// apply this tick, or ok=false once the path is Done.
func Step(p *Path, st EntityState, log *slog.Logger) (Intent, bool) {
	e, ok := p.Current()
	if !ok {
		return Intent{}, false
	}
	if reachedTarget(e, st) {
		p.Index++
		p.miningStarted = false
		log.Debug("pathfinder: edge reached", "target", e.Target, "kind", e.Kind)
		e, ok = p.Current()
		if !ok {
			return Intent{}, false
		}
	}
	return execute(e, st, p), true
}

// BlockBroken notifies the path that the block at pos was broken, advancing
// a held MoveMine edge; per spec.md "Mining edges hold execution until the
// mined block is broken."
func (p *Path) BlockBroken(pos Pos) {
	e, ok := p.Current()
	if !ok || e.Kind != MoveMine || e.MineTarget != pos {
		return
	}
	p.Index++
	p.miningStarted = false
}

// execute produces the intent for one tick of an edge still in progress.
func execute(e Edge, st EntityState, p *Path) Intent {
	target := e.Target
	switch e.Kind {
	case MoveMine:
		if !p.miningStarted {
			p.miningStarted = true
			return Intent{LookAt: &e.MineTarget, StartMining: &e.MineTarget}
		}
		return Intent{LookAt: &e.MineTarget}
	case MoveSprintJump2, MoveSprintJump3:
		return Intent{LookAt: &target, Walk: true, Sprint: true, Jump: st.OnGround}
	case MoveStepUp, MoveFall:
		return Intent{LookAt: &target, Walk: true, Jump: e.Kind == MoveStepUp}
	default:
		return Intent{LookAt: &target, Walk: true}
	}
}
