package shape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAABBIntersects(t *testing.T) {
	a := NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := NewAABB(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1.5, 1.5, 1.5})
	c := NewAABB(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{3, 3, 3})
	if !a.Intersects(b) {
		t.Fatal("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Fatal("expected a and c to not intersect")
	}
}

func TestAABBYOffsetClampsFall(t *testing.T) {
	moving := NewAABB(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 2, 1})
	ground := NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	got := moving.YOffset(ground, -5)
	if got != 0 {
		t.Fatalf("expected fall to be clamped to 0, got %v", got)
	}
}

func TestAABBYOffsetIgnoresNonOverlappingColumn(t *testing.T) {
	moving := NewAABB(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 2, 1})
	farAway := NewAABB(mgl64.Vec3{10, 0, 10}, mgl64.Vec3{11, 1, 11})
	got := moving.YOffset(farAway, -5)
	if got != -5 {
		t.Fatalf("expected unaffected offset -5, got %v", got)
	}
}

func TestCollideThreadsThroughMultipleBoxes(t *testing.T) {
	moving := NewAABB(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 6, 1})
	boxes := []AABB{
		NewAABB(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{1, 4, 1}),
		NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
	}
	got := Collide(AxisY, moving, boxes, -10)
	if got != -1 {
		t.Fatalf("expected clip to nearest box top (delta -1), got %v", got)
	}
}
