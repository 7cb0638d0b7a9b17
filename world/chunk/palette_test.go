package chunk

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestPalettedContainerSetGetRoundTrip(t *testing.T) {
	c := New(KindBlockStates, 0)
	want := make(map[int]int32)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 4096; i++ {
		v := int32(r.Intn(300))
		c.Set(i, v)
		want[i] = v
	}
	for i, v := range want {
		if got := c.Get(i); got != v {
			t.Fatalf("index %d: got %d, want %d", i, got, v)
		}
	}
}

func TestPalettedContainerPromotionPreservesValues(t *testing.T) {
	c := New(KindBlockStates, 0)
	// Force promotion through every palette kind by writing more distinct
	// values than a linear/hashmap palette can hold at low bits-per-entry.
	want := make([]int32, 4096)
	for i := 0; i < 4096; i++ {
		v := int32(i % 600)
		c.Set(i, v)
		want[i] = v
	}
	for i, v := range want {
		if got := c.Get(i); got != v {
			t.Fatalf("after promotion, index %d: got %d, want %d", i, got, v)
		}
	}
}

func TestPalettedContainerSingleValueDefault(t *testing.T) {
	c := New(KindBlockStates, 42)
	for i := 0; i < 4096; i += 137 {
		if got := c.Get(i); got != 42 {
			t.Fatalf("index %d: got %d, want default 42", i, got)
		}
	}
}

func TestPalettedContainerWireRoundTrip(t *testing.T) {
	c := New(KindBiomes, 0)
	for i := 0; i < 64; i++ {
		c.Set(i, int32(i%5))
	}
	var buf bytes.Buffer
	if err := c.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	decoded := &PalettedContainer{}
	if err := decoded.ReadFrom(bytes.NewReader(buf.Bytes()), KindBiomes); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 64; i++ {
		if got, want := decoded.Get(i), int32(i%5); got != want {
			t.Fatalf("index %d: got %d, want %d", i, got, want)
		}
	}
}
