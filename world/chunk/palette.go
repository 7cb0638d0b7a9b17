// Package chunk implements the section-based, palette-compressed block and
// biome storage described by spec.md section 3 ("Chunk section", "Paletted
// container") and section 4.2 ("Palette and chunk codec").
//
// Grounded on original_source/azalea-world/src/palette/container.rs's
// PalettedContainer (bits-per-entry / palette-kind dispatch, id_for/on_resize
// promotion) and on the retrieval pack's
// b904e295_oomph-ac-dragonfly__server-world-chunk-decode.go.go /
// f1f081cf_LunarN0v4-dragonfly__server-world-chunk-decode.go.go for the
// Go decode-loop shape (read bits-per-entry, dispatch on palette kind, read
// packed storage words). dragonfly's own chunk package is not present in the
// retrieval pack (it lives in a sibling module, `world/chunk`, that was
// trimmed out of the pack); this package plays the same role for the Java
// wire format that package would for Bedrock's.
package chunk

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/brentp/intintmap"

	"github.com/dragonfly-bot/azalea/codec"
)

// PaletteKind enumerates the palette storage strategies from spec.md section
// 3/4.2.
type PaletteKind uint8

const (
	PaletteSingleValue PaletteKind = iota
	PaletteLinear
	PaletteHashmap
	PaletteGlobal
)

// Kind distinguishes the two paletted containers a section holds, since they
// use different bits-per-entry -> palette-kind tables (spec.md section 4.2
// step 2).
type Kind uint8

const (
	KindBlockStates Kind = iota
	KindBiomes
)

// volume returns the number of entries a container of this Kind holds: 4096
// for a 16x16x16 block-state section, 64 for a 4x4x4 (quarter-resolution)
// biome section.
func (k Kind) volume() int {
	if k == KindBiomes {
		return 64
	}
	return 4096
}

// bitsPerEntryToKind implements spec.md section 4.2 step 2's fixed table.
func (k Kind) bitsPerEntryToKind(bpe uint8) PaletteKind {
	if k == KindBiomes {
		switch {
		case bpe == 0:
			return PaletteSingleValue
		case bpe <= 3:
			return PaletteLinear
		default:
			return PaletteGlobal
		}
	}
	switch {
	case bpe == 0:
		return PaletteSingleValue
	case bpe <= 4:
		return PaletteLinear
	case bpe <= 8:
		return PaletteHashmap
	default:
		return PaletteGlobal
	}
}

// PalettedContainer is a tuple of (bits-per-entry, palette, packed storage)
// as described in spec.md section 3. One non-generic type with int32 ids
// serves both the block-state and biome containers, keeping their volumes
// and palette-kind tables distinct via Kind.
type PalettedContainer struct {
	kind         Kind
	bitsPerEntry uint8

	// single holds the one id when the palette kind is PaletteSingleValue.
	single int32
	// linear/hashmap hold the indexed id list for those palette kinds. Linear
	// is a small flat slice (promoted from <=4 bpe for blocks, <=3 for
	// biomes); hashmap additionally maintains an id->index map for O(1)
	// lookups once the palette grows past a handful of entries, backed by
	// intintmap's open-addressed int64->int64 map to avoid Go map boxing on
	// the hot path every Set call exercises.
	linear  []int32
	idIndex *intintmap.Map

	storage *bitStorage
}

// New creates an empty, single-value PalettedContainer holding defaultID,
// matching spec.md's invariant that a freshly created section with nothing
// written is entirely the palette's one value.
func New(kind Kind, defaultID int32) *PalettedContainer {
	return &PalettedContainer{
		kind:    kind,
		single:  defaultID,
		storage: newBitStorage(0, kind.volume()),
	}
}

// Get resolves index -> palette -> id, per spec.md section 3's paletted
// container read contract.
func (p *PalettedContainer) Get(index int) int32 {
	switch p.kind.bitsPerEntryToKind(p.bitsPerEntry) {
	case PaletteSingleValue:
		return p.single
	case PaletteGlobal:
		return int32(p.storage.get(index))
	default:
		paletteIndex := p.storage.get(index)
		if int(paletteIndex) >= len(p.linear) {
			// Defensive: a corrupt/short palette should not panic the reader;
			// fall back to the first entry, matching spec.md section 7's
			// "smallest safe fallback" policy.
			if len(p.linear) == 0 {
				return p.single
			}
			return p.linear[0]
		}
		return p.linear[paletteIndex]
	}
}

// Set writes value at index, promoting the palette if it has no room,
// per spec.md section 4.2's promotion algorithm (grounded on
// PalettedContainer::id_for/on_resize in container.rs).
func (p *PalettedContainer) Set(index int, value int32) {
	paletteIdx := p.idFor(value)
	p.storage.set(index, uint64(paletteIdx))
}

// idFor returns value's index within the current palette, promoting the
// container if value is new and the palette has no capacity left.
func (p *PalettedContainer) idFor(value int32) int64 {
	switch p.kind.bitsPerEntryToKind(p.bitsPerEntry) {
	case PaletteSingleValue:
		if p.single == value {
			return 0
		}
		return p.resize(1, value)
	case PaletteLinear:
		for i, v := range p.linear {
			if v == value {
				return int64(i)
			}
		}
		capacity := int(1) << p.bitsPerEntry
		if len(p.linear) < capacity {
			p.linear = append(p.linear, value)
			return int64(len(p.linear) - 1)
		}
		return p.resize(p.bitsPerEntry+1, value)
	case PaletteHashmap:
		if p.idIndex == nil {
			p.idIndex = intintmap.New(len(p.linear)+1, 0.6)
			for i, v := range p.linear {
				p.idIndex.Put(int64(v), int64(i))
			}
		}
		if idx, ok := p.idIndex.Get(int64(value)); ok {
			return idx
		}
		capacity := int(1) << p.bitsPerEntry
		if len(p.linear) < capacity {
			p.linear = append(p.linear, value)
			idx := int64(len(p.linear) - 1)
			p.idIndex.Put(int64(value), idx)
			return idx
		}
		return p.resize(p.bitsPerEntry+1, value)
	default: // PaletteGlobal
		if need := requiredBits(int(value) + 1); need > p.bitsPerEntry {
			return p.resize(need, value)
		}
		return int64(value)
	}
}

// resize promotes the container to bpe (clamped to the next palette kind for
// this Kind), copying every (index, value) pair through the old palette into
// the new one, then returns the new palette index for value. This preserves
// every (pos, value) pair that existed before promotion, per spec.md
// section 8's palette law.
func (p *PalettedContainer) resize(bpe uint8, value int32) int64 {
	old := p
	next := &PalettedContainer{
		kind:         p.kind,
		bitsPerEntry: bpe,
		storage:      newBitStorage(int(bpe), p.kind.volume()),
	}
	if next.kind.bitsPerEntryToKind(bpe) == PaletteGlobal {
		for i := 0; i < old.storage.size; i++ {
			next.storage.set(i, uint64(old.Get(i)))
		}
	} else {
		for i := 0; i < old.storage.size; i++ {
			v := old.Get(i)
			idx := next.idFor(v)
			next.storage.set(i, uint64(idx))
		}
	}
	*p = *next
	return p.idFor(value)
}

// ReadFrom decodes a paletted container per spec.md section 4.2: read
// bits-per-entry, dispatch the palette kind, read the palette, then read the
// varint-length-prefixed u64 word array reinterpreted as packed storage.
func (p *PalettedContainer) ReadFrom(r io.Reader, kind Kind) error {
	bpe, err := codec.ReadUint8(r)
	if err != nil {
		return err
	}
	p.kind = kind
	p.bitsPerEntry = bpe
	paletteKind := kind.bitsPerEntryToKind(bpe)

	switch paletteKind {
	case PaletteSingleValue:
		v, _, err := codec.ReadVarInt(r)
		if err != nil {
			return err
		}
		p.single = v
	case PaletteLinear, PaletteHashmap:
		n, _, err := codec.ReadVarInt(r)
		if err != nil {
			return err
		}
		p.linear = make([]int32, n)
		for i := range p.linear {
			v, _, err := codec.ReadVarInt(r)
			if err != nil {
				return err
			}
			p.linear[i] = v
		}
	case PaletteGlobal:
		// No palette is transmitted; storage holds raw ids.
	}

	wordCount, _, err := codec.ReadVarInt(r)
	if err != nil {
		return err
	}
	words := make([]uint64, wordCount)
	for i := range words {
		v, err := codec.ReadInt64(r)
		if err != nil {
			return err
		}
		words[i] = uint64(v)
	}
	storage, err := bitStorageFromWords(int(bpe), kind.volume(), words)
	if err != nil {
		return err
	}
	p.storage = storage
	return nil
}

// WriteTo encodes the paletted container using its current palette kind,
// without promotion (callers that mutated the container already keep it in
// its minimal representation via idFor's promotion path).
func (p *PalettedContainer) WriteTo(w io.Writer) error {
	if err := codec.WriteUint8(w, p.bitsPerEntry); err != nil {
		return err
	}
	switch p.kind.bitsPerEntryToKind(p.bitsPerEntry) {
	case PaletteSingleValue:
		if _, err := codec.WriteVarInt(w, p.single); err != nil {
			return err
		}
	case PaletteLinear, PaletteHashmap:
		if _, err := codec.WriteVarInt(w, int32(len(p.linear))); err != nil {
			return err
		}
		for _, v := range p.linear {
			if _, err := codec.WriteVarInt(w, v); err != nil {
				return err
			}
		}
	case PaletteGlobal:
	}
	if _, err := codec.WriteVarInt(w, int32(len(p.storage.words))); err != nil {
		return err
	}
	for _, word := range p.storage.words {
		if err := codec.WriteInt64(w, int64(word)); err != nil {
			return err
		}
	}
	return nil
}

// bitStorage is a packed array of size fixed-width indices into a palette,
// per spec.md section 3's "Invariants: storage length equals section
// volume" and section 4.2's "aligned bit storage" (entries never straddle a
// word boundary; a value that would is stored aligned into the next word).
type bitStorage struct {
	bitsPerEntry int
	size         int
	perWord      int
	mask         uint64
	words        []uint64
}

func newBitStorage(bitsPerEntry, size int) *bitStorage {
	if bitsPerEntry == 0 {
		return &bitStorage{bitsPerEntry: 0, size: size}
	}
	perWord := 64 / bitsPerEntry
	wordCount := (size + perWord - 1) / perWord
	return &bitStorage{
		bitsPerEntry: bitsPerEntry,
		size:         size,
		perWord:      perWord,
		mask:         (uint64(1) << bitsPerEntry) - 1,
		words:        make([]uint64, wordCount),
	}
}

func bitStorageFromWords(bitsPerEntry, size int, words []uint64) (*bitStorage, error) {
	if bitsPerEntry == 0 {
		if len(words) != 0 {
			return nil, fmt.Errorf("chunk: single-value storage carries %d words, want 0", len(words))
		}
		return &bitStorage{bitsPerEntry: 0, size: size}, nil
	}
	perWord := 64 / bitsPerEntry
	wantWords := (size + perWord - 1) / perWord
	if len(words) != wantWords {
		return nil, fmt.Errorf("chunk: bit storage has %d words, want %d for size %d at %d bpe", len(words), wantWords, size, bitsPerEntry)
	}
	return &bitStorage{
		bitsPerEntry: bitsPerEntry,
		size:         size,
		perWord:      perWord,
		mask:         (uint64(1) << bitsPerEntry) - 1,
		words:        words,
	}, nil
}

func (b *bitStorage) get(index int) uint64 {
	if b.bitsPerEntry == 0 {
		return 0
	}
	wordIdx := index / b.perWord
	bitOffset := (index % b.perWord) * b.bitsPerEntry
	return (b.words[wordIdx] >> bitOffset) & b.mask
}

func (b *bitStorage) set(index int, value uint64) {
	if b.bitsPerEntry == 0 {
		return
	}
	wordIdx := index / b.perWord
	bitOffset := (index % b.perWord) * b.bitsPerEntry
	b.words[wordIdx] = (b.words[wordIdx] &^ (b.mask << bitOffset)) | ((value & b.mask) << bitOffset)
}

func (b *bitStorage) size_() int { return b.size }

// requiredBits returns the minimum bits-per-entry able to index n distinct
// values, used by idFor to widen a global-palette container whose current
// bits-per-entry cannot hold a newly written id.
func requiredBits(n int) uint8 {
	if n <= 1 {
		return 0
	}
	return uint8(bits.Len(uint(n - 1)))
}
