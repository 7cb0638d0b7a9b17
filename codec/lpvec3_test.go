package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a/b-1) < 0.01
}

func TestLpVec3RoundTrip(t *testing.T) {
	vectors := []mgl64.Vec3{
		{0, 0, 0},
		{1.234, -5.678, 9.876},
		{10000000, -5000000, 9876543},
	}
	for _, v := range vectors {
		lp := LpVec3FromVec3(v)
		v2 := lp.ToVec3()
		if !closeEnough(v.X(), v2.X()) || !closeEnough(v.Y(), v2.Y()) || !closeEnough(v.Z(), v2.Z()) {
			t.Errorf("original %v, roundtrip %v", v, v2)
		}
	}
}

func TestLpVec3DoubleRoundTripIsFixed(t *testing.T) {
	vectors := []mgl64.Vec3{
		{0, 0, 0},
		{1.234, -5.678, 9.876},
		{10000000, -5000000, 9876543},
	}
	for _, v := range vectors {
		lp := LpVec3FromVec3(v)
		var firstBuf bytes.Buffer
		if err := lp.WriteTo(&firstBuf); err != nil {
			t.Fatal(err)
		}
		decoded, err := ReadLpVec3(bytes.NewReader(firstBuf.Bytes()))
		if err != nil {
			t.Fatal(err)
		}
		if decoded != lp {
			t.Fatalf("decode mismatch: %+v vs %+v", lp, decoded)
		}

		roundTripped := LpVec3FromVec3(decoded.ToVec3())
		var secondBuf bytes.Buffer
		if err := roundTripped.WriteTo(&secondBuf); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(firstBuf.Bytes(), secondBuf.Bytes()) {
			t.Fatalf("double round trip not fixed: %x vs %x", firstBuf.Bytes(), secondBuf.Bytes())
		}
	}
}
