package pathfinder

import (
	"github.com/dragonfly-bot/azalea/world"
	"github.com/dragonfly-bot/azalea/world/chunk"
)

// WorldQuery is the minimal read-only world access the successors function
// needs, decoupling this package from azalea/world's concrete locking the
// same way azalea/physics.BlockSource decouples the travel routines.
type WorldQuery interface {
	// Solid reports whether the block at an absolute position obstructs
	// movement (anything that is not air for the purpose of this search;
	// spec.md section 4.9 doesn't distinguish partial-collision shapes at
	// the pathfinder level, only at the physics-execution level).
	Solid(pos Pos) bool
	// Hardness estimates the tick cost to mine the block at pos with the
	// best tool in hotbar, or -1 if the block cannot be mined by this query.
	// successors only calls it when Options.AllowMining is set.
	Hardness(pos Pos, hotbar []int32) float64
}

// worldAdapter grounds WorldQuery on azalea/world.World's chunk/block
// accessors. Block-state id to name/hardness resolution is not available
// from the wire protocol alone (the block table is a baked client asset, not
// something RegistryData carries, and generating one from upstream data is
// out of scope per spec.md's Non-goals); Hardness therefore falls back to a
// flat estimate for any non-air block rather than a real per-block table.
type worldAdapter struct {
	w *world.World
}

// NewWorldQuery adapts w into the WorldQuery successors consumes.
func NewWorldQuery(w *world.World) WorldQuery { return worldAdapter{w: w} }

func (a worldAdapter) Solid(pos Pos) bool {
	cx, cz := int32(pos.X)>>4, int32(pos.Z)>>4
	c := a.w.Chunk(chunk.Pos{X: cx, Z: cz}, false)
	if c == nil {
		// Unloaded chunks are treated as solid: a search must not plan
		// through ground it cannot yet verify, matching a conservative
		// "don't walk off the edge of loaded terrain" stance.
		return true
	}
	lx, lz := int(pos.X&15), int(pos.Z&15)
	id, ok := c.Block(lx, int(pos.Y), lz)
	if !ok {
		return true
	}
	return id != a.w.AirID()
}

const defaultMineEstimate = 30.0 // ticks; flat estimate absent a real hardness table.

func (a worldAdapter) Hardness(pos Pos, hotbar []int32) float64 {
	if !a.Solid(pos) {
		return -1
	}
	return defaultMineEstimate
}
