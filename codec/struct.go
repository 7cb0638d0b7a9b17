package codec

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// Reader is implemented by any type able to decode itself from a packet
// body. It mirrors dragonfly's nbt.Unmarshaler-style per-type hook, but for
// the flat field-ordered wire framing this protocol uses instead of NBT.
type Reader interface {
	ReadFrom(r io.Reader) error
}

// Writer is the Reader counterpart for encoding.
type Writer interface {
	WriteTo(w io.Writer) error
}

// fieldTag captures the parsed "mc" struct tag controlling how a field is
// framed: varint use and an optional length/count limit, per spec.md section
// 4.1 ("Limited strings/lists accept an extra parameter limit at the call
// site").
type fieldTag struct {
	varint bool
	limit  int
}

func parseTag(raw string) fieldTag {
	var ft fieldTag
	if raw == "" {
		return ft
	}
	for _, part := range strings.Split(raw, ",") {
		switch {
		case part == "varint":
			ft.varint = true
		case strings.HasPrefix(part, "limit="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "limit=")); err == nil {
				ft.limit = n
			}
		}
	}
	return ft
}

// EncodeStruct writes every exported field of v, in declaration order, per
// spec.md's "Derived framing for structs". Fields of type implementing
// Writer are delegated to directly; otherwise a built-in primitive encoder
// is chosen from the field's Go kind and its `mc` tag.
func EncodeStruct(w io.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		tag := parseTag(sf.Tag.Get("mc"))
		if err := encodeField(w, fv, tag); err != nil {
			return fmt.Errorf("codec: encode field %s: %w", sf.Name, err)
		}
	}
	return nil
}

// DecodeStruct is the Reader counterpart of EncodeStruct.
func DecodeStruct(r io.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("codec: DecodeStruct requires a pointer, got %T", v)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		tag := parseTag(sf.Tag.Get("mc"))
		if err := decodeField(r, fv, tag); err != nil {
			return fmt.Errorf("codec: decode field %s: %w", sf.Name, err)
		}
	}
	return nil
}

func encodeField(w io.Writer, fv reflect.Value, tag fieldTag) error {
	if fv.CanAddr() {
		if writer, ok := fv.Addr().Interface().(Writer); ok {
			return writer.WriteTo(w)
		}
	}
	if writer, ok := fv.Interface().(Writer); ok {
		return writer.WriteTo(w)
	}
	switch fv.Kind() {
	case reflect.Bool:
		return WriteBool(w, fv.Bool())
	case reflect.Int8:
		return WriteInt8(w, int8(fv.Int()))
	case reflect.Uint8:
		return WriteUint8(w, uint8(fv.Uint()))
	case reflect.Int16:
		return WriteInt16(w, int16(fv.Int()))
	case reflect.Int32:
		if tag.varint {
			_, err := WriteVarInt(w, int32(fv.Int()))
			return err
		}
		return WriteInt32(w, int32(fv.Int()))
	case reflect.Int64:
		if tag.varint {
			_, err := WriteVarLong(w, fv.Int())
			return err
		}
		return WriteInt64(w, fv.Int())
	case reflect.Float32:
		return WriteFloat32(w, float32(fv.Float()))
	case reflect.Float64:
		return WriteFloat64(w, fv.Float())
	case reflect.String:
		return WriteString(w, fv.String(), tag.limit)
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return WriteByteArray(w, fv.Bytes())
		}
		return fmt.Errorf("no generic slice codec for %s; implement Writer", fv.Type())
	case reflect.Struct:
		return EncodeStruct(w, fv.Addr().Interface())
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
}

func decodeField(r io.Reader, fv reflect.Value, tag fieldTag) error {
	if fv.CanAddr() {
		if reader, ok := fv.Addr().Interface().(Reader); ok {
			return reader.ReadFrom(r)
		}
	}
	switch fv.Kind() {
	case reflect.Bool:
		v, err := ReadBool(r)
		fv.SetBool(v)
		return err
	case reflect.Int8:
		v, err := ReadInt8(r)
		fv.SetInt(int64(v))
		return err
	case reflect.Uint8:
		v, err := ReadUint8(r)
		fv.SetUint(uint64(v))
		return err
	case reflect.Int16:
		v, err := ReadInt16(r)
		fv.SetInt(int64(v))
		return err
	case reflect.Int32:
		if tag.varint {
			v, _, err := ReadVarInt(r)
			fv.SetInt(int64(v))
			return err
		}
		v, err := ReadInt32(r)
		fv.SetInt(int64(v))
		return err
	case reflect.Int64:
		if tag.varint {
			v, _, err := ReadVarLong(r)
			fv.SetInt(v)
			return err
		}
		v, err := ReadInt64(r)
		fv.SetInt(v)
		return err
	case reflect.Float32:
		v, err := ReadFloat32(r)
		fv.SetFloat(float64(v))
		return err
	case reflect.Float64:
		v, err := ReadFloat64(r)
		fv.SetFloat(v)
		return err
	case reflect.String:
		v, err := ReadString(r, tag.limit)
		fv.SetString(v)
		return err
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			v, err := ReadByteArray(r, tag.limit)
			fv.SetBytes(v)
			return err
		}
		return fmt.Errorf("no generic slice codec for %s; implement Reader", fv.Type())
	case reflect.Struct:
		return DecodeStruct(r, fv.Addr().Interface())
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
}
