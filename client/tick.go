package client

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dragonfly-bot/azalea/pathfinder"
	"github.com/dragonfly-bot/azalea/physics"
	"github.com/dragonfly-bot/azalea/physics/shape"
	"github.com/dragonfly-bot/azalea/world/chunk"
)

// playerBoundingBox is the vanilla standing hitbox (0.6 wide, 1.8 tall),
// untranslated, matching the box physics_test.go exercises the travel
// routines against.
var playerBoundingBox = shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})

// walkSpeed and sprintSpeed are the per-tick horizontal speeds implied by
// pathfinder/graph.go's walkCost/sprintCost constants (ticks per block,
// inverted back into blocks per tick), used to turn a pathfinder edge's
// direction into the velocity nudge applyPathfinderIntent applies.
const (
	walkSpeed   = 0.19
	sprintSpeed = 0.26
)

// tickPhysics runs one game tick of travel and (if a path is active) path
// execution, per spec.md section 4.10: "Physics and pathfinder execution
// must run on the game-tick stage." It is always invoked by Run regardless
// of whether the caller also supplies its own onTick.
func (c *Client) tickPhysics() {
	c.mu.Lock()
	w := c.world
	path := c.activePath
	c.mu.Unlock()
	if w == nil {
		return
	}

	lp := c.player
	medium := physics.MediumAir
	switch {
	case lp.Physics.InLava:
		medium = physics.MediumLava
	case lp.Physics.InWater:
		medium = physics.MediumWater
	}

	input := physics.Input{Sprint: lp.Physics.Sprinting}
	if path != nil {
		st := pathfinder.EntityState{Pos: blockPos(lp.Position), OnGround: lp.Physics.OnGround}
		intent, ok := pathfinder.Step(path, st, c.log)
		if !ok {
			c.mu.Lock()
			c.activePath = nil
			c.mu.Unlock()
		} else {
			c.applyPathfinderIntent(intent, &input)
		}
	}

	newPos, newVel, onGround := physics.Tick(
		lp.Position, lp.Velocity, &lp.Physics, input, medium,
		playerBoundingBox, physics.BlockFriction(""),
		c.collisionBoxes,
	)
	lp.Position = newPos
	lp.Velocity = newVel
	lp.OnGround = onGround
}

// applyPathfinderIntent translates one tick's pathfinder Intent into the
// physics Input plus a direct horizontal velocity nudge toward the edge's
// target. physics.Input's Forward/Strafe fields only drive the sprint-jump
// boost vector (see physics/physics.go's applyHorizontal); there is no
// yaw-relative walking-acceleration model in this project; a pathfinder-
// driven walk instead nudges velocity directly toward the target block,
// mirroring the way azalea's PathfinderClientExt feeds a target-relative
// movement vector into travel ahead of calling it.
func (c *Client) applyPathfinderIntent(intent pathfinder.Intent, input *physics.Input) {
	if intent.LookAt != nil {
		c.player.Yaw = yawTo(c.player.Position, *intent.LookAt)
	}
	input.Sprint = intent.Sprint
	input.Jump = intent.Jump
	if intent.StartMining != nil {
		if err := c.StartMiningBlock(*intent.StartMining); err != nil {
			c.log.Warn("pathfinder: start mining failed", "err", err)
		}
	}
	if !intent.Walk {
		return
	}
	target := intent.LookAt
	if target == nil {
		return
	}
	dx := float64(target.X) + 0.5 - c.player.Position[0]
	dz := float64(target.Z) + 0.5 - c.player.Position[2]
	dist := math.Hypot(dx, dz)
	if dist < 1e-6 {
		return
	}
	speed := walkSpeed
	if intent.Sprint {
		speed = sprintSpeed
	}
	input.Forward = speed
	c.player.Velocity[0] = dx / dist * speed
	c.player.Velocity[2] = dz / dist * speed
}

// yawTo returns the yaw (degrees, wire convention) pointing from from toward
// to's block center.
func yawTo(from mgl64.Vec3, to pathfinder.Pos) float64 {
	dx := float64(to.X) + 0.5 - from[0]
	dz := float64(to.Z) + 0.5 - from[2]
	return math.Atan2(-dx, dz) * 180 / math.Pi
}

// blockPos floors pos into the block position it currently occupies.
func blockPos(pos mgl64.Vec3) pathfinder.Pos {
	return pathfinder.Pos{
		X: int32(math.Floor(pos[0])),
		Y: int32(math.Floor(pos[1])),
		Z: int32(math.Floor(pos[2])),
	}
}

// collisionBoxes is physics.Tick's BlockSource-style blocks closure,
// grounded on pathfinder/query.go's worldAdapter: every non-air block in
// broad's footprint is treated as a full unit cube, since resolving a
// block's real (possibly non-cuboid) collision shape from the wire protocol
// alone is out of scope, per spec.md's Non-goals around block/item registry
// generation.
func (c *Client) collisionBoxes(broad shape.AABB) []shape.AABB {
	c.mu.RLock()
	w := c.world
	c.mu.RUnlock()
	if w == nil {
		return nil
	}

	minX, minY, minZ := int32(math.Floor(broad.Min()[0])), int32(math.Floor(broad.Min()[1])), int32(math.Floor(broad.Min()[2]))
	maxX, maxY, maxZ := int32(math.Floor(broad.Max()[0])), int32(math.Floor(broad.Max()[1])), int32(math.Floor(broad.Max()[2]))

	var boxes []shape.AABB
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				ch := w.Chunk(chunk.Pos{X: x >> 4, Z: z >> 4}, false)
				if ch == nil {
					continue
				}
				id, ok := ch.Block(int(x&15), int(y), int(z&15))
				if !ok || id == w.AirID() {
					continue
				}
				boxes = append(boxes, shape.NewAABB(
					mgl64.Vec3{float64(x), float64(y), float64(z)},
					mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
				))
			}
		}
	}
	return boxes
}
