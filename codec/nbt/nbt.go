// Package nbt implements Java Edition's Named Binary Tag format, used by the
// registry holder (spec.md section 4.3) to decode the dimension, biome and
// damage-type tables shipped in configuration-state registry packets.
//
// Grounded on original_source/azalea-nbt/src/encode.rs's tag-id table and
// compound-writing shape; the string length prefix there is a raw u16 (NBT's
// "modified UTF-8" convention) rather than this protocol's varint strings,
// which is preserved here since NBT framing is independent of the outer
// packet codec (spec.md section 4.1: "NBT: ... implemented by a separate NBT
// codec").
package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Tag ids, matching the Java NBT specification exactly.
const (
	IDEnd byte = iota
	IDByte
	IDShort
	IDInt
	IDLong
	IDFloat
	IDDouble
	IDByteArray
	IDString
	IDList
	IDCompound
	IDIntArray
	IDLongArray
)

// Compound is an ordered Java NBT compound: a sequence of named tags. A Go
// map would lose field order, which upstream servers sometimes rely on
// ("byte-for-byte" consumers); an ordered slice of entries is used instead,
// mirroring the teacher's map-plus-insertion-order idiom seen in
// world/registry's registry holder.
type Compound struct {
	Names  []string
	Values []any
}

// Get returns the value stored under name and whether it was present.
func (c *Compound) Get(name string) (any, bool) {
	for i, n := range c.Names {
		if n == name {
			return c.Values[i], true
		}
	}
	return nil, false
}

// Put inserts or overwrites the tag under name.
func (c *Compound) Put(name string, value any) {
	for i, n := range c.Names {
		if n == name {
			c.Values[i] = value
			return
		}
	}
	c.Names = append(c.Names, name)
	c.Values = append(c.Values, value)
}

// List is a homogeneous Java NBT list; ElemID is IDEnd for an empty list.
type List struct {
	ElemID byte
	Values []any
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xffff {
		return fmt.Errorf("nbt: string too long (%d bytes)", len(s))
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(s)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func tagIDOf(v any) (byte, error) {
	switch v.(type) {
	case int8:
		return IDByte, nil
	case int16:
		return IDShort, nil
	case int32:
		return IDInt, nil
	case int64:
		return IDLong, nil
	case float32:
		return IDFloat, nil
	case float64:
		return IDDouble, nil
	case []byte:
		return IDByteArray, nil
	case string:
		return IDString, nil
	case *List:
		return IDList, nil
	case *Compound:
		return IDCompound, nil
	case []int32:
		return IDIntArray, nil
	case []int64:
		return IDLongArray, nil
	default:
		return 0, fmt.Errorf("nbt: unsupported value type %T", v)
	}
}

func writePayload(w io.Writer, id byte, v any) error {
	switch id {
	case IDByte:
		_, err := w.Write([]byte{byte(v.(int8))})
		return err
	case IDShort:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(v.(int16)))
		_, err := w.Write(b[:])
		return err
	case IDInt:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.(int32)))
		_, err := w.Write(b[:])
		return err
	case IDLong:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.(int64)))
		_, err := w.Write(b[:])
		return err
	case IDFloat:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], float32bits(v.(float32)))
		_, err := w.Write(b[:])
		return err
	case IDDouble:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], float64bits(v.(float64)))
		_, err := w.Write(b[:])
		return err
	case IDByteArray:
		arr := v.([]byte)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(len(arr)))
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
		_, err := w.Write(arr)
		return err
	case IDString:
		return writeString(w, v.(string))
	case IDList:
		return writeList(w, v.(*List))
	case IDCompound:
		return writeCompoundBody(w, v.(*Compound))
	case IDIntArray:
		arr := v.([]int32)
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(len(arr)))
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
		for _, x := range arr {
			binary.BigEndian.PutUint32(b[:], uint32(x))
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
		return nil
	case IDLongArray:
		arr := v.([]int64)
		var b4 [4]byte
		binary.BigEndian.PutUint32(b4[:], uint32(len(arr)))
		if _, err := w.Write(b4[:]); err != nil {
			return err
		}
		var b8 [8]byte
		for _, x := range arr {
			binary.BigEndian.PutUint64(b8[:], uint64(x))
			if _, err := w.Write(b8[:]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("nbt: unknown tag id %d", id)
	}
}

func writeList(w io.Writer, l *List) error {
	if _, err := w.Write([]byte{l.ElemID}); err != nil {
		return err
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(l.Values)))
	if _, err := w.Write(b[:]); err != nil {
		return err
	}
	for _, v := range l.Values {
		if err := writePayload(w, l.ElemID, v); err != nil {
			return err
		}
	}
	return nil
}

func writeCompoundBody(w io.Writer, c *Compound) error {
	for i, name := range c.Names {
		v := c.Values[i]
		id, err := tagIDOf(v)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte{id}); err != nil {
			return err
		}
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := writePayload(w, id, v); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{IDEnd})
	return err
}

// EncodeNamed writes c as a top-level named compound (IDCompound, name,
// body, IDEnd), the pre-configuration-state NBT framing per spec.md section
// 6 ("named-root in pre-configuration").
func EncodeNamed(w io.Writer, name string, c *Compound) error {
	if _, err := w.Write([]byte{IDCompound}); err != nil {
		return err
	}
	if err := writeString(w, name); err != nil {
		return err
	}
	return writeCompoundBody(w, c)
}

// EncodeUnnamed writes c as a top-level compound with no root name, the
// newer-version NBT framing per spec.md section 6 ("unnamed-root in newer
// versions").
func EncodeUnnamed(w io.Writer, c *Compound) error {
	if _, err := w.Write([]byte{IDCompound}); err != nil {
		return err
	}
	return writeCompoundBody(w, c)
}

func readPayload(r io.Reader, id byte) (any, error) {
	switch id {
	case IDByte:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return int8(b[0]), nil
	case IDShort:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return int16(binary.BigEndian.Uint16(b[:])), nil
	case IDInt:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return int32(binary.BigEndian.Uint32(b[:])), nil
	case IDLong:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return int64(binary.BigEndian.Uint64(b[:])), nil
	case IDFloat:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return float32frombits(binary.BigEndian.Uint32(b[:])), nil
	case IDDouble:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		return float64frombits(binary.BigEndian.Uint64(b[:])), nil
	case IDByteArray:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint32(b[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case IDString:
		return readString(r)
	case IDList:
		return readList(r)
	case IDCompound:
		return readCompoundBody(r)
	case IDIntArray:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint32(b[:])
		out := make([]int32, n)
		for i := range out {
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return nil, err
			}
			out[i] = int32(binary.BigEndian.Uint32(b[:]))
		}
		return out, nil
	case IDLongArray:
		var b4 [4]byte
		if _, err := io.ReadFull(r, b4[:]); err != nil {
			return nil, err
		}
		n := binary.BigEndian.Uint32(b4[:])
		out := make([]int64, n)
		var b8 [8]byte
		for i := range out {
			if _, err := io.ReadFull(r, b8[:]); err != nil {
				return nil, err
			}
			out[i] = int64(binary.BigEndian.Uint64(b8[:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("nbt: unknown tag id %d", id)
	}
}

func readList(r io.Reader) (*List, error) {
	var idBuf [1]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return nil, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	l := &List{ElemID: idBuf[0], Values: make([]any, 0, min32(n))}
	for i := uint32(0); i < n; i++ {
		v, err := readPayload(r, idBuf[0])
		if err != nil {
			return nil, err
		}
		l.Values = append(l.Values, v)
	}
	return l, nil
}

func min32(n uint32) int {
	if n > 65536 {
		return 65536
	}
	return int(n)
}

func readCompoundBody(r io.Reader) (*Compound, error) {
	c := &Compound{}
	for {
		var idBuf [1]byte
		if _, err := io.ReadFull(r, idBuf[:]); err != nil {
			return nil, err
		}
		if idBuf[0] == IDEnd {
			return c, nil
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		v, err := readPayload(r, idBuf[0])
		if err != nil {
			return nil, err
		}
		c.Put(name, v)
	}
}

// DecodeNamed reads a top-level named compound, returning the name and body.
func DecodeNamed(r io.Reader) (string, *Compound, error) {
	var idBuf [1]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return "", nil, err
	}
	if idBuf[0] != IDCompound {
		return "", nil, fmt.Errorf("nbt: expected root compound tag, got id %d", idBuf[0])
	}
	name, err := readString(r)
	if err != nil {
		return "", nil, err
	}
	c, err := readCompoundBody(r)
	return name, c, err
}

// DecodeUnnamed reads a top-level compound with no root name.
func DecodeUnnamed(r io.Reader) (*Compound, error) {
	var idBuf [1]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return nil, err
	}
	if idBuf[0] != IDCompound {
		return nil, fmt.Errorf("nbt: expected root compound tag, got id %d", idBuf[0])
	}
	return readCompoundBody(r)
}

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(u uint32) float32 { return math.Float32frombits(u) }
func float64bits(f float64) uint64     { return math.Float64bits(f) }
func float64frombits(u uint64) float64 { return math.Float64frombits(u) }
