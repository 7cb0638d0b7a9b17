package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/dragonfly-bot/azalea/entity"
	"github.com/dragonfly-bot/azalea/physics/shape"
)

func boxAt(x, y, z, w, h, d float64) shape.AABB {
	return shape.NewAABB(mgl64.Vec3{x, y, z}, mgl64.Vec3{x + w, y + h, z + d})
}

func TestTickAppliesGravityInAir(t *testing.T) {
	state := &entity.PhysicsState{}
	pos := mgl64.Vec3{0, 100, 0}
	vel := mgl64.Vec3{}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})

	newPos, newVel, onGround := Tick(pos, vel, state, Input{}, MediumAir, bbox, 0.6, func(shape.AABB) []shape.AABB { return nil })
	if newVel[1] >= 0 {
		t.Fatalf("expected negative Y velocity after gravity, got %v", newVel[1])
	}
	if newPos[1] >= pos[1] {
		t.Fatalf("expected position to drop, got %v", newPos[1])
	}
	if onGround {
		t.Fatal("expected not on ground while falling in open air")
	}
}

func TestTickLandsOnGround(t *testing.T) {
	state := &entity.PhysicsState{}
	pos := mgl64.Vec3{0, 1.1, 0}
	vel := mgl64.Vec3{0, -1, 0}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})
	ground := boxAt(-5, 0, -5, 10, 1, 10)

	_, newVel, onGround := Tick(pos, vel, state, Input{}, MediumAir, bbox, 0.6, func(shape.AABB) []shape.AABB {
		return []shape.AABB{ground}
	})
	if !onGround {
		t.Fatal("expected entity to land on ground")
	}
	if newVel[1] != 0 {
		t.Fatalf("expected vertical velocity zeroed on landing, got %v", newVel[1])
	}
}

func TestJumpAppliesUpwardImpulseAfterGravity(t *testing.T) {
	state := &entity.PhysicsState{OnGround: true}
	pos := mgl64.Vec3{0, 10, 0}
	vel := mgl64.Vec3{}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})

	_, newVel, _ := Tick(pos, vel, state, Input{Jump: true}, MediumAir, bbox, 0.6, func(shape.AABB) []shape.AABB { return nil })
	if newVel[1] != jumpVelocity {
		t.Fatalf("expected jump velocity %v, got %v", jumpVelocity, newVel[1])
	}
	if !state.JustJumped {
		t.Fatal("expected JustJumped to be set on the jump tick")
	}
}

func TestAirJumpRequiresOnGround(t *testing.T) {
	state := &entity.PhysicsState{OnGround: false}
	pos := mgl64.Vec3{0, 10, 0}
	vel := mgl64.Vec3{}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})

	_, newVel, _ := Tick(pos, vel, state, Input{Jump: true}, MediumAir, bbox, 0.6, func(shape.AABB) []shape.AABB { return nil })
	if newVel[1] == jumpVelocity {
		t.Fatal("expected an airborne entity not to jump")
	}
	if state.JustJumped {
		t.Fatal("expected JustJumped to stay false without ground contact")
	}
}

func TestFluidJumpImpulse(t *testing.T) {
	state := &entity.PhysicsState{InWater: true}
	pos := mgl64.Vec3{0, 10, 0}
	vel := mgl64.Vec3{}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})

	_, newVel, _ := Tick(pos, vel, state, Input{Jump: true}, MediumWater, bbox, 0.6, func(shape.AABB) []shape.AABB { return nil })
	if newVel[1] <= 0 {
		t.Fatalf("expected a small upward nudge from the fluid jump impulse, got %v", newVel[1])
	}
	if !state.JustJumped {
		t.Fatal("expected JustJumped to be set on a fluid jump tick")
	}
}

func TestWaterSprintIsFasterThanWalk(t *testing.T) {
	walk := applyFluidPostCollision(mgl64.Vec3{1, 0, 0}, &entity.PhysicsState{}, Input{}, MediumWater, true, false)
	sprint := applyFluidPostCollision(mgl64.Vec3{1, 0, 0}, &entity.PhysicsState{}, Input{Sprint: true}, MediumWater, true, false)
	if sprint[0] <= walk[0] {
		t.Fatalf("expected sprinting in water to scale velocity higher, walk=%v sprint=%v", walk[0], sprint[0])
	}
}

func TestCollisionAxisOrderPrefersLargerHorizontalComponent(t *testing.T) {
	state := &entity.PhysicsState{}
	pos := mgl64.Vec3{0, 10, 0}
	vel := mgl64.Vec3{0.1, 0, 1}
	bbox := shape.NewAABB(mgl64.Vec3{-0.3, 0, -0.3}, mgl64.Vec3{0.3, 1.8, 0.3})
	wallZ := boxAt(-5, 9, 0.6, 10, 3, 1)

	_, newVel, _ := Tick(pos, vel, state, Input{}, MediumAir, bbox, 0.6, func(shape.AABB) []shape.AABB {
		return []shape.AABB{wallZ}
	})
	if newVel[2] != 0 {
		t.Fatalf("expected Z movement to be collided against the wall first, got %v", newVel[2])
	}
}

func TestSprintJumpBoostOnlyOnJumpTick(t *testing.T) {
	state := &entity.PhysicsState{JustJumped: true}
	vel := applyHorizontal(mgl64.Vec3{0, 0, 0}, state, Input{Forward: 1, Sprint: true}, MediumAir, 0.6)
	if vel[0] == 0 {
		t.Fatal("expected sprint-jump boost to add horizontal velocity on the jump tick")
	}

	state2 := &entity.PhysicsState{JustJumped: false}
	vel2 := applyHorizontal(mgl64.Vec3{0, 0, 0}, state2, Input{Forward: 1, Sprint: true}, MediumAir, 0.6)
	if vel2[0] != 0 {
		t.Fatal("expected no sprint-jump boost on a non-jump tick")
	}
}
