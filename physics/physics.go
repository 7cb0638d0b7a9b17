// Package physics implements the per-tick travel routines applied to the
// local player (and any simulated entity): gravity, drag, block friction,
// swept collision and the handful of vanilla movement quirks a bot must
// reproduce exactly to walk the same paths a real client would, per
// spec.md section 4.6 "Physics".
//
// Grounded on server/entity/movement.go's MovementComputer: the same
// apply-vertical-forces / apply-horizontal-forces / check-collision
// pipeline, generalised from dragonfly's single Gravity/Drag pair into three
// travel modes (air, water, lava) and a collision sweep (Y first, then the
// larger of the X/Z movements, then the other) against shape.Collide
// instead of movement.go's inline BBox loops.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dragonfly-bot/azalea/entity"
	"github.com/dragonfly-bot/azalea/physics/shape"
)

// Medium identifies which travel routine governs an entity this tick.
type Medium int

const (
	MediumAir Medium = iota
	MediumWater
	MediumLava
)

// Friction returned for common fence/wall/fence-gate-style blocks that don't
// expose a bespoke friction value: these obstruct full blocks but keep the
// default ground friction rather than the block's own (often irrelevant,
// since the entity never actually stands "on" a fence's thin collision
// shape) friction coefficient, per spec.md's fence/wall friction fallback
// note.
const defaultGroundFriction = 0.6

// BlockFriction looks up the sliding friction coefficient for a block by
// name, falling back to defaultGroundFriction for anything not in the table
// — including fences, walls and fence gates, which in vanilla do carry a
// friction value but one a walking/jumping bot never actually experiences
// (their collision shape keeps entities from resting flush on the surface
// that value would apply to).
func BlockFriction(blockName string) float64 {
	switch blockName {
	case "minecraft:slime_block":
		return 0.8
	case "minecraft:ice", "minecraft:packed_ice":
		return 0.98
	case "minecraft:blue_ice":
		return 0.989
	case "minecraft:honey_block":
		return 0.8
	default:
		return defaultGroundFriction
	}
}

const (
	gravity         = 0.08
	airDrag         = 0.02
	waterGravity    = 0.02
	waterDrag       = 0.8
	lavaGravity     = 0.02
	lavaDrag        = 0.5
	jumpVelocity    = 0.42
	fluidJumpBoost  = 0.04
	sprintJumpBoost = 0.2
	ladderClimbVelY = 0.2

	// waterMovementSpeedCap is the speed a full water-movement-efficiency
	// attribute (Depth Strider III) asymptotically scales towards.
	waterMovementSpeedCap = 0.546
	// lavaJumpThreshold matches spec.md's fluid_jump_threshold: at or below
	// this lava-fluid height vertical velocity is scaled by 0.8 and gets the
	// fluid falling adjustment; above it all three axes are halved.
	lavaJumpThreshold = 0.4
)

// BlockSource is the minimal world query physics needs, the block name at
// a position, decoupling this package from the world package's
// concrete Chunk type so it can be tested with a fake source.
type BlockSource interface {
	BlockName(pos [3]int) string
}

// Input is the set of per-tick player intents that affect travel: movement
// relative to look direction and a queued jump, matching the fields
// entity.PhysicsState tracks between ticks.
type Input struct {
	Forward, Strafe float64
	Jump            bool
	Sprint          bool
	Sneak           bool
}

// Tick advances pos/vel by one tick, mutating state in place and returning
// the resulting boxes the entity collided against (for callers that want to
// inspect collision results, e.g. pathfinder edge execution).
//
// boundingBox is the entity's AABB at the origin (untranslated); blocks
// returns every block AABB that might intersect the broad-phase swept query
// box, matching movement.go's blockBBoxsAround contract.
func Tick(pos, vel mgl64.Vec3, state *entity.PhysicsState, input Input, medium Medium,
	boundingBox shape.AABB, groundFriction float64,
	blocks func(broadPhase shape.AABB) []shape.AABB) (newPos, newVel mgl64.Vec3, onGround bool) {

	vel = applyVertical(vel, state, input, medium)
	vel = applyHorizontal(vel, state, input, medium, groundFriction)

	entityBox := boundingBox.Translate(pos)
	broad := entityBox.Extend(vel)
	boxes := blocks(broad)

	origX, origY, origZ := vel[0], vel[1], vel[2]
	dx, dy, dz := origX, origY, origZ

	// Collision order per spec.md section 4.4: Y first, then the axis with
	// the greater movement magnitude between X and Z, then the other,
	// translating the bounding box between each axis.
	if dy != 0 {
		dy = shape.Collide(shape.AxisY, entityBox, boxes, dy)
		entityBox = entityBox.Translate(mgl64.Vec3{0, dy, 0})
	}
	moreZ := math.Abs(dx) < math.Abs(dz)
	if moreZ && dz != 0 {
		dz = shape.Collide(shape.AxisZ, entityBox, boxes, dz)
		entityBox = entityBox.Translate(mgl64.Vec3{0, 0, dz})
	}
	if dx != 0 {
		dx = shape.Collide(shape.AxisX, entityBox, boxes, dx)
		entityBox = entityBox.Translate(mgl64.Vec3{dx, 0, 0})
	}
	if !moreZ && dz != 0 {
		dz = shape.Collide(shape.AxisZ, entityBox, boxes, dz)
	}

	onGround = origY < 0 && dy != origY
	horizontalCollision := dx != origX || dz != origZ
	if dy != origY {
		vel[1] = 0
	}
	if dx != origX {
		vel[0] = 0
	}
	if dz != origZ {
		vel[2] = 0
	}

	vel = applyFluidPostCollision(vel, state, input, medium, onGround, horizontalCollision)
	state.OnGround = onGround

	newPos = pos.Add(mgl64.Vec3{dx, dy, dz})
	newVel = vel
	return newPos, newVel, onGround
}

// applyVertical applies gravity/drag for the active medium, then the jump
// impulse, preserving the vanilla quirk that a queued jump is applied AFTER
// gravity has already reduced downward velocity that tick (spec.md's "jump
// boost after gravity" quirk) rather than before.
func applyVertical(vel mgl64.Vec3, state *entity.PhysicsState, input Input, medium Medium) mgl64.Vec3 {
	switch medium {
	case MediumWater:
		vel[1] -= waterGravity
		vel[1] *= 1 - waterDrag
	case MediumLava:
		vel[1] -= lavaGravity
		vel[1] *= 1 - lavaDrag
	default:
		vel[1] -= gravity
		vel[1] *= 1 - airDrag
	}

	state.JustJumped = false
	inFluid := medium == MediumWater || medium == MediumLava
	if state.OnLadder {
		// Climbing a ladder overrides vertical velocity outright rather than
		// adding to it; vanilla clamps upward climb speed and allows a small
		// downward drift, the "water-ladder" quirk of vel.y=0.2 applying
		// even while also treated as being "in water" for swimming purposes.
		if input.Jump {
			vel[1] = ladderClimbVelY
		} else if vel[1] < -ladderClimbVelY {
			vel[1] = -ladderClimbVelY
		}
	} else if input.Jump && (state.OnGround || inFluid) {
		// spec.md section 4.5 step 5: the jump impulse fires whenever the
		// entity is on-ground, on a climbable, or in a fluid; air sets the
		// upward speed outright, fluid merely nudges it.
		if inFluid {
			vel[1] += fluidJumpBoost
		} else {
			vel[1] = jumpVelocity
		}
		state.JustJumped = true
	}
	return vel
}

// applyHorizontal applies ground friction (in air) and the sprint-jump
// horizontal boost; fluid horizontal scaling happens after collision in
// applyFluidPostCollision, matching the order the original travel routine
// scales the already-collided velocity rather than the pre-collision one.
func applyHorizontal(vel mgl64.Vec3, state *entity.PhysicsState, input Input, medium Medium, groundFriction float64) mgl64.Vec3 {
	if medium == MediumAir {
		inertia := 0.91
		if state.OnGround {
			inertia = groundFriction * 0.91
		}
		vel[0] *= inertia
		vel[2] *= inertia
	}

	if state.JustJumped && input.Sprint && medium == MediumAir {
		boostX, boostZ := sprintJumpVector(input)
		vel[0] += boostX
		vel[2] += boostZ
	}
	return vel
}

// applyFluidPostCollision applies the water/lava velocity scaling spec.md
// section 4.5 describes, operating on the already-collided velocity (the
// displacement used for this tick's position update was already resolved in
// Tick; this only shapes the velocity carried into the next tick), grounded
// on travel.rs's travel_in_fluid.
func applyFluidPostCollision(vel mgl64.Vec3, state *entity.PhysicsState, input Input, medium Medium, onGround, horizontalCollision bool) mgl64.Vec3 {
	movingDown := vel[1] <= 0

	switch medium {
	case MediumWater:
		speed := waterMovementSpeed(input.Sprint)
		efficiency := state.WaterMovementEfficiency
		if !onGround {
			efficiency *= 0.5
		}
		if efficiency > 0 {
			speed += (waterMovementSpeedCap - speed) * efficiency
		}
		if horizontalCollision && state.OnLadder {
			vel[1] = ladderClimbVelY
		}
		vel[0] *= speed
		vel[1] *= 0.8
		vel[2] *= speed
		return fluidFallingAdjusted(vel, movingDown, input.Sprint)
	case MediumLava:
		if state.LavaFluidHeight <= lavaJumpThreshold {
			vel[0] *= 0.5
			vel[1] *= 0.8
			vel[2] *= 0.5
			vel = fluidFallingAdjusted(vel, movingDown, input.Sprint)
		} else {
			vel[0] *= 0.5
			vel[1] *= 0.5
			vel[2] *= 0.5
		}
		vel[1] -= gravity / 4
		return vel
	default:
		return vel
	}
}

// waterMovementSpeed is the unscaled horizontal speed factor before any
// water-movement-efficiency attribute bonus is folded in.
func waterMovementSpeed(sprint bool) float64 {
	if sprint {
		return 0.9
	}
	return 0.8
}

// fluidFallingAdjusted snaps small residual upward drift in fluid to a
// gentle sink, unless sprinting, matching
// get_fluid_falling_adjusted_movement.
func fluidFallingAdjusted(vel mgl64.Vec3, movingDown, sprint bool) mgl64.Vec3 {
	if sprint {
		return vel
	}
	if movingDown && math.Abs(vel[1]-0.005) >= 0.003 && math.Abs(vel[1]-gravity/16) < 0.003 {
		vel[1] = -0.003
	} else {
		vel[1] -= gravity / 16
	}
	return vel
}

// sprintJumpVector returns the horizontal boost applied on the tick a
// sprinting entity leaves the ground, directed along its current forward
// input.
func sprintJumpVector(input Input) (x, z float64) {
	mag := math.Hypot(input.Forward, input.Strafe)
	if mag < 1e-9 {
		return 0, 0
	}
	return (input.Forward / mag) * sprintJumpBoost, (input.Strafe / mag) * sprintJumpBoost
}
