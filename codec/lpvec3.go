package codec

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LpVec3 is the lossy variable-length position-delta encoding used for
// entity movement packets (spec.md section 8's codec law: "LpVec3::from(v)
// .to_vec3() is within 1% of v componentwise for all |v| < 2^34, and the
// double round-trip is fixed"). Grounded byte-for-byte on
// original_source/azalea-core/src/delta.rs's LpVec3, reimplemented with
// Go's big-endian fixed-integer primitives instead of azalea_buf's
// little-endian ones (this protocol's fixed integers are big-endian, per
// spec.md section 4.1).
type LpVec3 struct {
	zero  bool
	a, b  uint8
	c     uint32
	d     uint32
	isExt bool
}

// sanitizeLp clamps a component into the representable range, mapping NaN to
// zero, exactly as LpVec3::sanitize does.
func sanitizeLp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1.7179869183e10, math.Min(1.7179869183e10, v))
}

func ceilLong(v float64) int64 {
	return int64(math.Ceil(v))
}

func packLp(value float64) uint64 {
	return uint64(math.Round((value*0.5 + 0.5) * 32766))
}

func unpackLp(value uint64) float64 {
	return math.Min(float64(value&32767), 32766)*2/32766 - 1
}

// LpVec3FromVec3 packs a delta vector into its lossy wire representation.
func LpVec3FromVec3(v mgl64.Vec3) LpVec3 {
	x, y, z := sanitizeLp(v.X()), sanitizeLp(v.Y()), sanitizeLp(v.Z())
	max := math.Max(math.Abs(x), math.Max(math.Abs(y), math.Abs(z)))
	if max < 3.051944088384301e-5 {
		return LpVec3{zero: true}
	}

	divisor := ceilLong(max)
	isExtended := divisor&3 != divisor
	var packedDivisor uint64
	if isExtended {
		packedDivisor = (uint64(divisor) & 3) | 4
	} else {
		packedDivisor = uint64(divisor)
	}
	packedX := packLp(x/float64(divisor)) << 3
	packedY := packLp(y/float64(divisor)) << 18
	packedZ := packLp(z/float64(divisor)) << 33
	packed := packedDivisor | packedX | packedY | packedZ

	a := uint8(packed)
	b := uint8(packed >> 8)
	c := uint32(packed >> 16)

	if isExtended {
		d := uint32(uint64(divisor) >> 2)
		return LpVec3{a: a, b: b, c: c, d: d, isExt: true}
	}
	return LpVec3{a: a, b: b, c: c}
}

// ToVec3 unpacks the lossy representation back into a delta vector.
func (l LpVec3) ToVec3() mgl64.Vec3 {
	if l.zero {
		return mgl64.Vec3{}
	}
	packed := uint64(l.c)<<16 | uint64(l.b)<<8 | uint64(l.a)
	var multiplier float64
	if l.isExt {
		multiplier = float64((uint64(l.a) & 3) | (uint64(l.d) << 2))
	} else {
		multiplier = float64(l.a & 3)
	}
	return mgl64.Vec3{
		unpackLp(packed>>3) * multiplier,
		unpackLp(packed>>18) * multiplier,
		unpackLp(packed>>33) * multiplier,
	}
}

// WriteTo writes the LpVec3 in its wire form: a single zero byte for a zero
// vector, otherwise six bytes (two single bytes and a 32-bit int) followed
// by a varint extension when the scale needs one.
func (l LpVec3) WriteTo(w io.Writer) error {
	if l.zero {
		return WriteUint8(w, 0)
	}
	if err := WriteUint8(w, l.a); err != nil {
		return err
	}
	if err := WriteUint8(w, l.b); err != nil {
		return err
	}
	if err := WriteInt32(w, int32(l.c)); err != nil {
		return err
	}
	if l.isExt {
		_, err := WriteVarInt(w, int32(l.d))
		return err
	}
	return nil
}

// ReadLpVec3 decodes an LpVec3 from its wire form.
func ReadLpVec3(r io.Reader) (LpVec3, error) {
	a, err := ReadUint8(r)
	if err != nil {
		return LpVec3{}, err
	}
	if a == 0 {
		return LpVec3{zero: true}, nil
	}
	b, err := ReadUint8(r)
	if err != nil {
		return LpVec3{}, err
	}
	c, err := ReadInt32(r)
	if err != nil {
		return LpVec3{}, err
	}
	if a&4 == 4 {
		d, _, err := ReadVarInt(r)
		if err != nil {
			return LpVec3{}, err
		}
		return LpVec3{a: a, b: b, c: uint32(c), d: uint32(d), isExt: true}, nil
	}
	return LpVec3{a: a, b: b, c: uint32(c)}, nil
}
