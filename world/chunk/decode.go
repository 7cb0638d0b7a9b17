package chunk

import (
	"bytes"
	"fmt"

	"github.com/dragonfly-bot/azalea/codec"
)

// DecodeLevelChunkData decodes the LevelChunkWithLight packet's chunk-data
// payload into a Chunk: for each of sectionCount sections, a non-air block
// count (short) followed by the block-state paletted container and the
// biome paletted container, per spec.md section 4.2.
//
// Grounded on b904e295_oomph-ac-dragonfly__server-world-chunk-decode.go.go's
// NetworkDecodeBuffer loop shape (iterate sub-chunks, decode each paletted
// storage in turn), adapted from Bedrock's separate sub-chunk-index-prefixed
// blob stream to Java's single contiguous per-section stream (count is
// derived from the dimension registry's height, not a length-prefixed
// sub-chunk list).
func DecodeLevelChunkData(data []byte, sectionCount int, airID, defaultBiomeID int32, minY int) (*Chunk, error) {
	buf := bytes.NewReader(data)
	c := NewChunk(sectionCount, minY, airID, defaultBiomeID)
	for i := 0; i < sectionCount; i++ {
		nonAir, err := codec.ReadInt16(buf)
		if err != nil {
			return nil, fmt.Errorf("chunk: section %d: non-air count: %w", i, err)
		}
		sec := c.sections[i]
		if err := sec.blocks.ReadFrom(buf, KindBlockStates); err != nil {
			return nil, fmt.Errorf("chunk: section %d: block palette: %w", i, err)
		}
		if err := sec.biomes.ReadFrom(buf, KindBiomes); err != nil {
			return nil, fmt.Errorf("chunk: section %d: biome palette: %w", i, err)
		}
		sec.nonAirCount = int(nonAir)
	}
	return c, nil
}

// EncodeLevelChunkData is the inverse of DecodeLevelChunkData, used by the
// chunk round-trip test.
func EncodeLevelChunkData(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	for _, sec := range c.sections {
		if err := codec.WriteInt16(&buf, int16(sec.nonAirCount)); err != nil {
			return nil, err
		}
		if err := sec.blocks.WriteTo(&buf); err != nil {
			return nil, err
		}
		if err := sec.biomes.WriteTo(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
