package codec

import (
	"io"

	"github.com/google/uuid"
)

// UUID is a protocol UUID field: 16 raw bytes, no length prefix, matching
// Java Edition's fixed-width UUID encoding (distinct from a length-prefixed
// byte array). Implements Reader/Writer so it composes with the struct
// framer in struct.go.
type UUID uuid.UUID

func (u UUID) WriteTo(w io.Writer) error {
	_, err := w.Write(u[:])
	return err
}

func (u *UUID) ReadFrom(r io.Reader) error {
	_, err := io.ReadFull(r, u[:])
	return err
}

func (u UUID) Google() uuid.UUID { return uuid.UUID(u) }
