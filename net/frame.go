// Package net implements the Java Edition wire framing: length-prefixed
// packet frames, optional zlib compression above a size threshold, and
// optional AES-128-CFB8 encryption, per spec.md section 4.6 "Framing".
//
// Grounded on ErikPelli-MinecraftLightServer/packet.go's Packet.Pack/Unpack
// (varint total length, then varint packet id, then body) for the base
// frame shape, generalised to add the compression and encryption layers
// that toy server never implements.
package net

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	kzlib "github.com/klauspost/compress/zlib"

	"github.com/dragonfly-bot/azalea/codec"
)

// Frame is a single decoded packet frame: the raw varint-prefixed packet id
// plus its remaining body bytes, before any struct-level decoding by
// net/packet.
type Frame struct {
	ID   int32
	Body []byte
}

// DisabledThreshold disables compression when used as the threshold,
// matching the LoginCompression packet's semantics (spec.md section 4.6:
// "a negative threshold disables compression").
const DisabledThreshold = -1

// WriteFrame writes one packet frame to w: [length varint][packet id
// varint][body], applying zlib compression (with the "uncompressed_length"
// marker prefix) when threshold >= 0 and the assembled id+body is at least
// threshold bytes long.
func WriteFrame(w io.Writer, id int32, body []byte, threshold int) error {
	var idBuf bytes.Buffer
	if _, err := codec.WriteVarInt(&idBuf, id); err != nil {
		return err
	}
	uncompressed := idBuf.Len() + len(body)

	if threshold < 0 {
		var out bytes.Buffer
		if _, err := codec.WriteVarInt(&out, int32(uncompressed)); err != nil {
			return err
		}
		out.Write(idBuf.Bytes())
		out.Write(body)
		_, err := w.Write(out.Bytes())
		return err
	}

	if uncompressed < threshold {
		// Below threshold: uncompressed_length field is 0, and the payload
		// that follows it is sent as-is (spec.md section 4.6).
		var payload bytes.Buffer
		if _, err := codec.WriteVarInt(&payload, 0); err != nil {
			return err
		}
		payload.Write(idBuf.Bytes())
		payload.Write(body)

		var out bytes.Buffer
		if _, err := codec.WriteVarInt(&out, int32(payload.Len())); err != nil {
			return err
		}
		out.Write(payload.Bytes())
		_, err := w.Write(out.Bytes())
		return err
	}

	var compressed bytes.Buffer
	zw, err := kzlib.NewWriterLevel(&compressed, kzlib.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(idBuf.Bytes()); err != nil {
		return err
	}
	if _, err := zw.Write(body); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	var payload bytes.Buffer
	if _, err := codec.WriteVarInt(&payload, int32(uncompressed)); err != nil {
		return err
	}
	payload.Write(compressed.Bytes())

	var out bytes.Buffer
	if _, err := codec.WriteVarInt(&out, int32(payload.Len())); err != nil {
		return err
	}
	out.Write(payload.Bytes())
	_, err = w.Write(out.Bytes())
	return err
}

// ReadFrame reads and decodes one packet frame from r, reversing
// WriteFrame's compression handling. The decompressor uses stdlib
// compress/zlib: RFC1950 zlib streams decode identically regardless of
// which implementation produced them, so inbound frames are not read with
// the klauspost codec WriteFrame uses to compress outbound frames.
func ReadFrame(r io.Reader, threshold int) (Frame, error) {
	length, _, err := codec.ReadVarInt(r)
	if err != nil {
		return Frame{}, err
	}
	if length < 1 {
		return Frame{}, fmt.Errorf("net: frame length too small: %d", length)
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Frame{}, fmt.Errorf("net: reading frame body: %w", err)
	}
	buf := bytes.NewReader(raw)

	if threshold < 0 {
		id, _, err := codec.ReadVarInt(buf)
		if err != nil {
			return Frame{}, err
		}
		body, err := io.ReadAll(buf)
		if err != nil {
			return Frame{}, err
		}
		return Frame{ID: id, Body: body}, nil
	}

	uncompressedLen, _, err := codec.ReadVarInt(buf)
	if err != nil {
		return Frame{}, err
	}
	var payload io.Reader = buf
	if uncompressedLen != 0 {
		zr, err := zlib.NewReader(buf)
		if err != nil {
			return Frame{}, fmt.Errorf("net: zlib: %w", err)
		}
		defer zr.Close()
		payload = zr
	}
	id, _, err := codec.ReadVarInt(payload)
	if err != nil {
		return Frame{}, err
	}
	body, err := io.ReadAll(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{ID: id, Body: body}, nil
}
