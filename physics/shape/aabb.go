// Package shape implements axis-aligned bounding boxes and voxel shapes used
// by the physics engine's swept collision resolution, per spec.md section
// 4.6 "Physics".
//
// Grounded on server/entity/movement.go's cube.BBox usage (Translate, Grow,
// XOffset/YOffset/ZOffset swept-axis clipping) and cube.BBox's conceptual
// shape as described there, reimplemented from scratch since the cube
// package itself was not part of the retrieval pack.
package shape

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon matches server/entity/movement.go's collision epsilon, used when
// deciding whether a swept offset actually changed.
const epsilon = 1e-7

// AABB is an axis-aligned bounding box.
type AABB struct {
	min, max mgl64.Vec3
}

// NewAABB creates an AABB from two corners, normalising so Min() <= Max() on
// every axis regardless of argument order.
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

func (a AABB) Min() mgl64.Vec3 { return a.min }
func (a AABB) Max() mgl64.Vec3 { return a.max }

// Translate returns a moved by delta.
func (a AABB) Translate(delta mgl64.Vec3) AABB {
	return AABB{min: a.min.Add(delta), max: a.max.Add(delta)}
}

// Grow expands a by d on every axis in both directions (negative d shrinks
// it), matching cube.BBox.Grow's usage in blockBBoxsAround.
func (a AABB) Grow(d float64) AABB {
	v := mgl64.Vec3{d, d, d}
	return AABB{min: a.min.Sub(v), max: a.max.Add(v)}
}

// Extend grows a in the direction of vel only, used to build the broad-phase
// query box a moving entity needs to check against (movement.go's
// `entityBBox.Extend(vel)`).
func (a AABB) Extend(vel mgl64.Vec3) AABB {
	min, max := a.min, a.max
	for axis := 0; axis < 3; axis++ {
		if vel[axis] < 0 {
			min[axis] += vel[axis]
		} else {
			max[axis] += vel[axis]
		}
	}
	return AABB{min: min, max: max}
}

// Intersects reports whether a and b overlap on all three axes.
func (a AABB) Intersects(b AABB) bool {
	return a.min[0] < b.max[0] && a.max[0] > b.min[0] &&
		a.min[1] < b.max[1] && a.max[1] > b.min[1] &&
		a.min[2] < b.max[2] && a.max[2] > b.min[2]
}

// ContainsPoint reports whether p lies within a, inclusive of its faces.
func (a AABB) ContainsPoint(p mgl64.Vec3) bool {
	return p[0] >= a.min[0] && p[0] <= a.max[0] &&
		p[1] >= a.min[1] && p[1] <= a.max[1] &&
		p[2] >= a.min[2] && p[2] <= a.max[2]
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		min: mgl64.Vec3{math.Min(a.min[0], b.min[0]), math.Min(a.min[1], b.min[1]), math.Min(a.min[2], b.min[2])},
		max: mgl64.Vec3{math.Max(a.max[0], b.max[0]), math.Max(a.max[1], b.max[1]), math.Max(a.max[2], b.max[2])},
	}
}

// YOffset clamps deltaY so that a, when swept along Y by the result, does
// not penetrate b if a overlaps b's X/Z extent. Mirrors cube.BBox's
// YOffset/XOffset/ZOffset family used by movement.go's checkCollision in
// strict Y-then-X-then-Z axis order (spec.md section 4.6 "collision
// resolution is axis-ordered Y, X, Z").
func (a AABB) YOffset(b AABB, deltaY float64) float64 {
	if a.max[0] <= b.min[0] || a.min[0] >= b.max[0] || a.max[2] <= b.min[2] || a.min[2] >= b.max[2] {
		return deltaY
	}
	if deltaY > 0 && a.max[1] <= b.min[1] {
		if d := b.min[1] - a.max[1]; d < deltaY {
			return d
		}
	} else if deltaY < 0 && a.min[1] >= b.max[1] {
		if d := b.max[1] - a.min[1]; d > deltaY {
			return d
		}
	}
	return deltaY
}

// XOffset is YOffset's X-axis counterpart.
func (a AABB) XOffset(b AABB, deltaX float64) float64 {
	if a.max[1] <= b.min[1] || a.min[1] >= b.max[1] || a.max[2] <= b.min[2] || a.min[2] >= b.max[2] {
		return deltaX
	}
	if deltaX > 0 && a.max[0] <= b.min[0] {
		if d := b.min[0] - a.max[0]; d < deltaX {
			return d
		}
	} else if deltaX < 0 && a.min[0] >= b.max[0] {
		if d := b.max[0] - a.min[0]; d > deltaX {
			return d
		}
	}
	return deltaX
}

// ZOffset is YOffset's Z-axis counterpart.
func (a AABB) ZOffset(b AABB, deltaZ float64) float64 {
	if a.max[0] <= b.min[0] || a.min[0] >= b.max[0] || a.max[1] <= b.min[1] || a.min[1] >= b.max[1] {
		return deltaZ
	}
	if deltaZ > 0 && a.max[2] <= b.min[2] {
		if d := b.min[2] - a.max[2]; d < deltaZ {
			return d
		}
	} else if deltaZ < 0 && a.min[2] >= b.max[2] {
		if d := b.max[2] - a.min[2]; d > deltaZ {
			return d
		}
	}
	return deltaZ
}

// approxZero reports whether v is within epsilon of zero, the same
// threshold movement.go uses via mgl64.FloatEqualThreshold.
func approxZero(v float64) bool { return math.Abs(v) < epsilon }
