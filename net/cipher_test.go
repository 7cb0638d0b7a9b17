package net

import (
	"bytes"
	"testing"
)

func TestCFB8RoundTrip(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(i * 7)
		iv[i] = byte(i * 3)
	}
	plaintext := []byte("the quick brown fox jumps over the lazy dog, 0123456789")

	enc, err := newCFB8(key, iv, true)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := make([]byte, len(plaintext))
	enc.XORKeyStream(ciphertext, plaintext)

	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	dec, err := newCFB8(key, iv, false)
	if err != nil {
		t.Fatal(err)
	}
	decoded := make([]byte, len(ciphertext))
	dec.XORKeyStream(decoded, ciphertext)

	if !bytes.Equal(decoded, plaintext) {
		t.Fatalf("round trip mismatch: got %q, want %q", decoded, plaintext)
	}
}

func TestCFB8StreamsAcrossMultipleWrites(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	enc, _ := newCFB8(key, iv, true)
	dec, _ := newCFB8(key, iv, false)

	parts := [][]byte{[]byte("hello "), []byte("world"), []byte("!")}
	var full []byte
	for _, p := range parts {
		ct := make([]byte, len(p))
		enc.XORKeyStream(ct, p)
		pt := make([]byte, len(ct))
		dec.XORKeyStream(pt, ct)
		full = append(full, pt...)
	}
	if string(full) != "hello world!" {
		t.Fatalf("got %q", full)
	}
}
