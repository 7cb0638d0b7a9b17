package packet

import (
	"bytes"

	"github.com/dragonfly-bot/azalea/codec"
	"github.com/dragonfly-bot/azalea/net"
)

// Decode looks up the schema registered for (state, dir, frame.ID) and
// decodes frame.Body into a fresh instance of it. A packet type that
// implements codec.Reader itself (RegistryData, LevelChunkWithLight, ...)
// is decoded through that method directly, the same escape hatch
// codec/struct.go uses per-field, since some packets frame themselves in a
// way the generic `mc`-tag struct walker cannot express; everything else
// goes through codec.DecodeStruct.
func Decode(frame net.Frame, state net.State, dir Direction) (any, error) {
	p, ok := New(state, dir, frame.ID)
	if !ok {
		return nil, errUnknownPacket(state, dir, frame.ID)
	}
	r := bytes.NewReader(frame.Body)
	if reader, ok := p.(codec.Reader); ok {
		return p, reader.ReadFrom(r)
	}
	if err := codec.DecodeStruct(r, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode serialises p's fields (in declaration order, per its `mc` tags)
// into a frame body, or delegates to p's own WriteTo if it implements
// codec.Writer (see Decode).
func Encode(p any) ([]byte, error) {
	var buf bytes.Buffer
	if writer, ok := p.(codec.Writer); ok {
		if err := writer.WriteTo(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := codec.EncodeStruct(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
