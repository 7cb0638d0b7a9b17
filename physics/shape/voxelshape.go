package shape

import "github.com/go-gl/mathgl/mgl64"

// DiscreteVoxelShape is a block's collision shape expressed as a set of unit
// cubes on a fixed-size voxel grid local to the block, used for
// non-cuboid block models (stairs, slabs, fences) where a single AABB is not
// enough, per spec.md section 4.6's block-model collision requirement.
//
// Grounded on server/entity/movement.go's blockBBoxsAround, which gathers
// one-or-more per-block BBoxes (`block.Model().BBox(pos, tx)`) and translates
// each into world space; DiscreteVoxelShape generalises "one-or-more boxes
// per block" into an explicit voxel bitset plus a merge-scan that turns
// adjacent filled voxels back into as few boxes as possible, which is the
// shape azalea's collision code expects block models to expose.
type DiscreteVoxelShape struct {
	sizeX, sizeY, sizeZ int
	filled              []bool
}

// NewDiscreteVoxelShape allocates an empty (fully unfilled) shape over a
// sizeX x sizeY x sizeZ voxel grid.
func NewDiscreteVoxelShape(sizeX, sizeY, sizeZ int) *DiscreteVoxelShape {
	return &DiscreteVoxelShape{
		sizeX: sizeX, sizeY: sizeY, sizeZ: sizeZ,
		filled: make([]bool, sizeX*sizeY*sizeZ),
	}
}

func (s *DiscreteVoxelShape) index(x, y, z int) int { return (y*s.sizeZ+z)*s.sizeX + x }

// Fill marks the voxel (x, y, z) as occupied.
func (s *DiscreteVoxelShape) Fill(x, y, z int) {
	if x < 0 || y < 0 || z < 0 || x >= s.sizeX || y >= s.sizeY || z >= s.sizeZ {
		return
	}
	s.filled[s.index(x, y, z)] = true
}

// IsFull reports whether the whole grid is occupied, the common case for a
// plain full-cube block.
func (s *DiscreteVoxelShape) IsFull() bool {
	for _, f := range s.filled {
		if !f {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no voxel is occupied (air / a passable block).
func (s *DiscreteVoxelShape) IsEmpty() bool {
	for _, f := range s.filled {
		if f {
			return false
		}
	}
	return true
}

// ForAllBoxes walks the filled voxel set and invokes fn once per maximal
// axis-aligned box of contiguous filled voxels, each box normalised to unit
// cube coordinates in [0,1] along each grid axis, matching the way
// block.Model().BBox in movement.go returns a list of per-block boxes rather
// than a single shape.
//
// The merge is a simple greedy scan: build runs along X, then merge adjacent
// rows along Z that share the same X run, then merge adjacent layers along Y
// that share the same X/Z rectangle. This is not maximal-rectangle optimal
// but is deterministic and produces few boxes for the regular block shapes
// this project needs (full cubes, slabs, stairs' individual steps).
func (s *DiscreteVoxelShape) ForAllBoxes(fn func(minX, minY, minZ, maxX, maxY, maxZ float64)) {
	consumed := make([]bool, len(s.filled))
	unitX, unitY, unitZ := 1.0/float64(s.sizeX), 1.0/float64(s.sizeY), 1.0/float64(s.sizeZ)

	for y := 0; y < s.sizeY; y++ {
		for z := 0; z < s.sizeZ; z++ {
			for x := 0; x < s.sizeX; x++ {
				idx := s.index(x, y, z)
				if !s.filled[idx] || consumed[idx] {
					continue
				}
				runX := 1
				for x+runX < s.sizeX {
					ni := s.index(x+runX, y, z)
					if !s.filled[ni] || consumed[ni] {
						break
					}
					runX++
				}
				runZ := 1
			zloop:
				for z+runZ < s.sizeZ {
					for dx := 0; dx < runX; dx++ {
						ni := s.index(x+dx, y, z+runZ)
						if !s.filled[ni] || consumed[ni] {
							break zloop
						}
					}
					runZ++
				}
				runY := 1
			yloop:
				for y+runY < s.sizeY {
					for dz := 0; dz < runZ; dz++ {
						for dx := 0; dx < runX; dx++ {
							ni := s.index(x+dx, y+runY, z+dz)
							if !s.filled[ni] || consumed[ni] {
								break yloop
							}
						}
					}
					runY++
				}
				for dy := 0; dy < runY; dy++ {
					for dz := 0; dz < runZ; dz++ {
						for dx := 0; dx < runX; dx++ {
							consumed[s.index(x+dx, y+dy, z+dz)] = true
						}
					}
				}
				fn(
					float64(x)*unitX, float64(y)*unitY, float64(z)*unitZ,
					float64(x+runX)*unitX, float64(y+runY)*unitY, float64(z+runZ)*unitZ,
				)
			}
		}
	}
}

// Boxes materialises ForAllBoxes's callback sequence into AABBs translated
// to world space at origin.
func (s *DiscreteVoxelShape) Boxes(origin mgl64.Vec3) []AABB {
	var out []AABB
	s.ForAllBoxes(func(minX, minY, minZ, maxX, maxY, maxZ float64) {
		out = append(out, NewAABB(
			mgl64.Vec3{minX, minY, minZ},
			mgl64.Vec3{maxX, maxY, maxZ},
		).Translate(origin))
	})
	return out
}

// FullCube returns the trivial all-filled 1x1x1 shape used by ordinary solid
// blocks.
func FullCube() *DiscreteVoxelShape {
	s := NewDiscreteVoxelShape(1, 1, 1)
	s.filled[0] = true
	return s
}

// Axis identifies one of the three movement axes, in the order spec.md
// section 4.6 requires collision to be resolved: Y first, then X, then Z.
type Axis int

const (
	AxisY Axis = iota
	AxisX
	AxisZ
)

// Collide clips displacement along axis against every box in shapes,
// returning the largest magnitude (same-sign) displacement that does not
// cause aabb to penetrate any of them. This is the single entry point the
// physics package uses per axis per tick, matching movement.go's per-axis
// checkCollision loop but generalised to an arbitrary box list rather than
// inlining the three loops at each call site.
func Collide(axis Axis, aabb AABB, boxes []AABB, displacement float64) float64 {
	if approxZero(displacement) {
		return displacement
	}
	result := displacement
	for _, b := range boxes {
		switch axis {
		case AxisY:
			result = aabb.YOffset(b, result)
		case AxisX:
			result = aabb.XOffset(b, result)
		case AxisZ:
			result = aabb.ZOffset(b, result)
		}
	}
	return result
}
