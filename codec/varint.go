// Package codec implements the binary wire primitives shared by every packet
// in the protocol: variable-length integers, length-prefixed strings and
// lists, bitsets and fixed-width big-endian numerics. Types implement Reader
// and Writer so the derive-style struct framer in struct.go can drive them
// generically.
package codec

import (
	"errors"
	"io"
)

// ErrVarIntTooBig is returned when a varint or varlong does not terminate
// within the maximum byte count the wire format allows.
var ErrVarIntTooBig = errors.New("codec: varint exceeds maximum length")

const (
	maxVarIntBytes  = 5
	maxVarLongBytes = 10
	continueBit     = 0x80
	segmentBits     = 0x7f
)

// WriteVarInt writes v to w using the LEB128-style 7-bits-per-byte encoding
// with MSB-continuation used throughout the protocol.
func WriteVarInt(w io.Writer, v int32) (int, error) {
	u := uint32(v)
	buf := make([]byte, 0, maxVarIntBytes)
	for {
		b := byte(u & segmentBits)
		u >>= 7
		if u != 0 {
			b |= continueBit
		}
		buf = append(buf, b)
		if u == 0 {
			break
		}
	}
	return w.Write(buf)
}

// ReadVarInt reads a varint from r, failing if more than five bytes are
// consumed without encountering a terminating byte.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var (
		value uint32
		n     int
		single [1]byte
	)
	for {
		if n >= maxVarIntBytes {
			return 0, n, ErrVarIntTooBig
		}
		if _, err := io.ReadFull(r, single[:]); err != nil {
			return 0, n, err
		}
		b := single[0]
		value |= uint32(b&segmentBits) << (7 * n)
		n++
		if b&continueBit == 0 {
			break
		}
	}
	return int32(value), n, nil
}

// WriteVarLong writes v as a 64-bit varint, as used for entity UUIDs' high
// precision counters and keep-alive identifiers.
func WriteVarLong(w io.Writer, v int64) (int, error) {
	u := uint64(v)
	buf := make([]byte, 0, maxVarLongBytes)
	for {
		b := byte(u & segmentBits)
		u >>= 7
		if u != 0 {
			b |= continueBit
		}
		buf = append(buf, b)
		if u == 0 {
			break
		}
	}
	return w.Write(buf)
}

// ReadVarLong reads a 64-bit varint from r.
func ReadVarLong(r io.Reader) (int64, int, error) {
	var (
		value  uint64
		n      int
		single [1]byte
	)
	for {
		if n >= maxVarLongBytes {
			return 0, n, ErrVarIntTooBig
		}
		if _, err := io.ReadFull(r, single[:]); err != nil {
			return 0, n, err
		}
		b := single[0]
		value |= uint64(b&segmentBits) << (7 * n)
		n++
		if b&continueBit == 0 {
			break
		}
	}
	return int64(value), n, nil
}

// VarIntSize returns the number of bytes WriteVarInt would emit for v,
// matching the length table referenced by spec.md's codec laws.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >= continueBit {
		u >>= 7
		n++
	}
	return n
}
