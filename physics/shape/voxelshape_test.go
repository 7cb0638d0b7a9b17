package shape

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFullCubeProducesSingleBox(t *testing.T) {
	boxes := FullCube().Boxes(mgl64.Vec3{})
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}
	if boxes[0].Min() != (mgl64.Vec3{0, 0, 0}) || boxes[0].Max() != (mgl64.Vec3{1, 1, 1}) {
		t.Fatalf("unexpected full cube bounds: %+v", boxes[0])
	}
}

func TestBottomSlabShapeIsHalfHeight(t *testing.T) {
	s := NewDiscreteVoxelShape(1, 2, 1)
	s.Fill(0, 0, 0)
	boxes := s.Boxes(mgl64.Vec3{})
	if len(boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(boxes))
	}
	if boxes[0].Max()[1] != 0.5 {
		t.Fatalf("expected slab top at y=0.5, got %v", boxes[0].Max()[1])
	}
}

func TestEmptyShapeHasNoBoxes(t *testing.T) {
	s := NewDiscreteVoxelShape(4, 4, 4)
	if len(s.Boxes(mgl64.Vec3{})) != 0 {
		t.Fatal("expected no boxes for an empty shape")
	}
	if !s.IsEmpty() {
		t.Fatal("expected IsEmpty true")
	}
}
