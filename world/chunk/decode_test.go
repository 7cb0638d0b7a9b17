package chunk

import "testing"

func TestLevelChunkDataRoundTrip(t *testing.T) {
	c := NewChunk(24, -64, 0, 0)
	c.SetBlock(3, 70, 9, 55)
	c.SetBlock(0, -64, 0, 7)

	data, err := EncodeLevelChunkData(c)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeLevelChunkData(data, 24, 0, 0, -64)
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := decoded.Block(3, 70, 9); !ok || id != 55 {
		t.Fatalf("block (3,70,9) = %d, ok=%v", id, ok)
	}
	if id, ok := decoded.Block(0, -64, 0); !ok || id != 7 {
		t.Fatalf("block (0,-64,0) = %d, ok=%v", id, ok)
	}
	if _, ok := decoded.Block(0, 1000, 0); ok {
		t.Fatal("expected out-of-range Y to report ok=false")
	}
}
