package chunk

import (
	"sync"
)

// Section is a 16x16x16 cuboid holding two paletted containers and a
// precomputed non-air block count, per spec.md section 3 "Chunk section".
type Section struct {
	blocks *PalettedContainer
	biomes *PalettedContainer

	// nonAirCount is a precomputed count of blocks in this section that are
	// not air, kept by SetBlockAt and DecodeLevelChunkData and returned by
	// NonAirBlockCount without rescanning the palette.
	nonAirCount int
}

// NewSection creates an empty section, both containers defaulting to
// airID/defaultBiomeID.
func NewSection(airID, defaultBiomeID int32) *Section {
	return &Section{
		blocks: New(KindBlockStates, airID),
		biomes: New(KindBiomes, defaultBiomeID),
	}
}

// BlockAt returns the runtime block-state id at the section-local
// coordinate (x, y, z), each in [0, 16).
func (s *Section) BlockAt(x, y, z int) int32 {
	return s.blocks.Get(sectionIndex(x, y, z))
}

// SetBlockAt writes the runtime block-state id at the section-local
// coordinate, maintaining nonAirCount. airID must match the id this
// Section was constructed with.
func (s *Section) SetBlockAt(x, y, z int, id, airID int32) {
	idx := sectionIndex(x, y, z)
	old := s.blocks.Get(idx)
	if old != airID && id == airID {
		s.nonAirCount--
	} else if old == airID && id != airID {
		s.nonAirCount++
	}
	s.blocks.Set(idx, id)
}

// BiomeAt returns the biome id at the quarter-resolution section-local
// coordinate (x, y, z), each in [0, 4).
func (s *Section) BiomeAt(x, y, z int) int32 {
	return s.biomes.Get((y<<2|z)<<2 | x)
}

// SetBiomeAt writes the biome id at the quarter-resolution coordinate.
func (s *Section) SetBiomeAt(x, y, z int, id int32) {
	s.biomes.Set((y<<2|z)<<2|x, id)
}

// NonAirBlockCount returns the precomputed non-air block count.
func (s *Section) NonAirBlockCount() int { return s.nonAirCount }

func sectionIndex(x, y, z int) int { return (y<<4|z)<<4 | x }

// Heightmap holds one of the Java Edition heightmap kinds (e.g.
// MOTION_BLOCKING, WORLD_SURFACE) as a flat 16x16 grid of Y values, per
// spec.md section 3 "Chunk: a heightmap set plus a vector of sections".
type Heightmap struct {
	Kind   string
	Values [256]int32
}

// Chunk is a full vertical stack of Sections plus a set of heightmaps, with
// a lock permitting concurrent readers and exclusive writers, per spec.md
// section 3 "Chunk". Grounded on dragonfly's Column/chunk-lock convention in
// world/world.go (a reader-writer lock guarding mutable block/entity state
// shared by multiple goroutines).
type Chunk struct {
	mu sync.RWMutex

	minY      int
	sections  []*Section
	heightmap map[string]*Heightmap

	airID          int32
	defaultBiomeID int32
}

// NewChunk allocates an empty Chunk with sectionCount sections starting at
// minY, the dimension-dependent values spec.md section 3 describes ("the
// number of sections per chunk and the minimum Y are dimension-dependent
// and set when the dimension registry arrives").
func NewChunk(sectionCount, minY int, airID, defaultBiomeID int32) *Chunk {
	sections := make([]*Section, sectionCount)
	for i := range sections {
		sections[i] = NewSection(airID, defaultBiomeID)
	}
	return &Chunk{
		minY:           minY,
		sections:       sections,
		heightmap:      map[string]*Heightmap{},
		airID:          airID,
		defaultBiomeID: defaultBiomeID,
	}
}

// sectionIndexForY returns the section slice index and the section-local Y
// for an absolute block Y, or (-1, 0) if y is outside this Chunk's range.
func (c *Chunk) sectionIndexForY(y int) (int, int) {
	rel := y - c.minY
	idx := rel >> 4
	if idx < 0 || idx >= len(c.sections) {
		return -1, 0
	}
	return idx, rel & 15
}

// Block returns the block-state id at the absolute position (x, y, z),
// where x/z are chunk-local in [0, 16). ok is false if y is out of range.
func (c *Chunk) Block(x, y, z int) (id int32, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ly := c.sectionIndexForY(y)
	if idx < 0 {
		return c.airID, false
	}
	return c.sections[idx].BlockAt(x, ly, z), true
}

// SetBlock writes the block-state id at the absolute position.
func (c *Chunk) SetBlock(x, y, z int, id int32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ly := c.sectionIndexForY(y)
	if idx < 0 {
		return false
	}
	c.sections[idx].SetBlockAt(x, ly, z, id, c.airID)
	return true
}

// Section returns the section at the given section index (0-based from the
// bottom of this Chunk's range), or nil if out of range.
func (c *Chunk) Section(index int) *Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.sections) {
		return nil
	}
	return c.sections[index]
}

// SectionCount returns the number of vertical sections this Chunk holds.
func (c *Chunk) SectionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sections)
}

// MinY returns the minimum absolute Y this Chunk's sections cover.
func (c *Chunk) MinY() int { return c.minY }

// Heightmap returns the named heightmap, or nil if it has not been
// populated yet (e.g. before the server sent one for this chunk).
func (c *Chunk) Heightmap(kind string) *Heightmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.heightmap[kind]
}

// SetHeightmap installs (or replaces) a heightmap by kind.
func (c *Chunk) SetHeightmap(h *Heightmap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heightmap[h.Kind] = h
}

// Pos identifies a chunk by its column coordinate.
type Pos struct {
	X, Z int32
}
