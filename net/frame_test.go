package net

import (
	"bytes"
	"testing"
)

func TestWriteReadFrameUncompressed(t *testing.T) {
	var buf bytes.Buffer
	body := []byte{1, 2, 3, 4, 5}
	if err := WriteFrame(&buf, 7, body, DisabledThreshold); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFrame(&buf, DisabledThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 7 || !bytes.Equal(f.Body, body) {
		t.Fatalf("got id=%d body=%v", f.ID, f.Body)
	}
}

func TestWriteReadFrameBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	body := []byte{9, 9, 9}
	if err := WriteFrame(&buf, 2, body, 256); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFrame(&buf, 256)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 2 || !bytes.Equal(f.Body, body) {
		t.Fatalf("got id=%d body=%v", f.ID, f.Body)
	}
}

func TestWriteReadFrameCompressed(t *testing.T) {
	var buf bytes.Buffer
	body := bytes.Repeat([]byte{0x42}, 1024)
	if err := WriteFrame(&buf, 3, body, 64); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFrame(&buf, 64)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 3 || !bytes.Equal(f.Body, body) {
		t.Fatalf("compressed round trip mismatch: id=%d len(body)=%d", f.ID, len(f.Body))
	}
}
