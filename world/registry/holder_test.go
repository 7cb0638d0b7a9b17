package registry

import (
	"testing"

	"github.com/dragonfly-bot/azalea/codec/nbt"
)

func TestHolderAppendInsertAndRemove(t *testing.T) {
	h := NewHolder(nil)

	dt := &nbt.Compound{}
	dt.Put("height", int32(384))
	dt.Put("min_y", int32(-64))
	dt.Put("ultrawarm", int8(0))
	h.Append(RegistryDimensionType, map[string]*nbt.Compound{"minecraft:overworld": dt})

	got := h.DimensionType("minecraft:overworld")
	if got == nil {
		t.Fatal("expected dimension type to be present")
	}
	if got.Height != 384 || got.MinY != -64 {
		t.Fatalf("unexpected dimension type: %+v", got)
	}

	h.Append(RegistryDimensionType, map[string]*nbt.Compound{"minecraft:overworld": nil})
	if h.DimensionType("minecraft:overworld") != nil {
		t.Fatal("expected dimension type to be removed after nil append")
	}
}

func TestHolderAppendSkipsUnchangedEntry(t *testing.T) {
	h := NewHolder(nil)
	dmg := &nbt.Compound{}
	dmg.Put("message_id", "inFire")
	dmg.Put("scaling", "when_caused_by_living_non_player")
	dmg.Put("exhaustion", float32(0.1))
	h.Append(RegistryDamageType, map[string]*nbt.Compound{"minecraft:in_fire": dmg})
	first := h.DamageType("minecraft:in_fire")

	// Re-append the identical bytes; the cached *DamageType pointer identity
	// should be preserved since hashCompound matches and materialiseTypedView
	// is skipped.
	h.Append(RegistryDamageType, map[string]*nbt.Compound{"minecraft:in_fire": dmg})
	second := h.DamageType("minecraft:in_fire")
	if first != second {
		t.Fatal("expected unchanged entry to skip re-materialisation")
	}
}

func TestHolderMalformedEntryTreatedAsAbsent(t *testing.T) {
	h := NewHolder(nil)
	bad := &nbt.Compound{}
	bad.Put("downfall", float32(0.4))
	h.Append(RegistryBiome, map[string]*nbt.Compound{"minecraft:plains": bad})
	if h.Biome("minecraft:plains") != nil {
		t.Fatal("expected malformed biome entry to be treated as absent")
	}
}
