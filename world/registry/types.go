package registry

import (
	"fmt"

	"github.com/dragonfly-bot/azalea/codec/nbt"
)

// DimensionType is the decoded minecraft:dimension_type registry element,
// ported from original_source/azalea-core/src/registry_holder.rs's
// DimensionTypeElement. Height and MinY are required; every other field is
// optional and keeps its zero value, or the default decodeDimensionType
// fills in, when the server omits it.
type DimensionType struct {
	Height               int32
	MinY                 int32
	LogicalHeight        int32
	CoordinateScale      float64
	AmbientLight         float32
	FixedTime            *int64
	HasCeiling           bool
	HasSkylight          bool
	HasRaids             bool
	Natural              bool
	PiglinSafe           bool
	RespawnAnchorWorks   bool
	Ultrawarm            bool
	BedWorks             bool
	Effects              string
	Infiniburn           string
	MonsterSpawnLightLvl MonsterSpawnLightLevel
}

// MonsterSpawnLightLevel mirrors the Rust MonsterSpawnLightLevel enum: either
// a bare integer light level, or a uniform-distribution {type, value{min,max}}
// tag shape.
type MonsterSpawnLightLevel struct {
	Simple  bool
	Value   int32
	Type    string
	Min     int32
	Max     int32
}

func decodeDimensionType(c *nbt.Compound) (*DimensionType, error) {
	height, ok := getInt32(c, "height")
	if !ok {
		return nil, fmt.Errorf("registry: dimension type missing required field height")
	}
	minY, ok := getInt32(c, "min_y")
	if !ok {
		return nil, fmt.Errorf("registry: dimension type missing required field min_y")
	}
	dt := &DimensionType{Height: height, MinY: minY}

	if v, ok := getInt32(c, "logical_height"); ok {
		dt.LogicalHeight = v
	} else {
		dt.LogicalHeight = height
	}
	if v, ok := getFloat64(c, "coordinate_scale"); ok {
		dt.CoordinateScale = v
	} else {
		dt.CoordinateScale = 1
	}
	if v, ok := getFloat32(c, "ambient_light"); ok {
		dt.AmbientLight = v
	}
	if v, ok := getInt32(c, "fixed_time"); ok {
		v64 := int64(v)
		dt.FixedTime = &v64
	}
	dt.HasCeiling = getBool(c, "has_ceiling")
	dt.HasSkylight = getBool(c, "has_skylight")
	dt.HasRaids = getBool(c, "has_raids")
	dt.Natural = getBool(c, "natural")
	dt.PiglinSafe = getBool(c, "piglin_safe")
	dt.RespawnAnchorWorks = getBool(c, "respawn_anchor_works")
	dt.Ultrawarm = getBool(c, "ultrawarm")
	dt.BedWorks = getBool(c, "bed_works")
	if v, ok := getString(c, "effects"); ok {
		dt.Effects = v
	}
	if v, ok := getString(c, "infiniburn"); ok {
		dt.Infiniburn = v
	}
	if lvl, ok := c.Get("monster_spawn_light_level"); ok {
		dt.MonsterSpawnLightLvl = decodeMonsterSpawnLightLevel(lvl)
	}
	return dt, nil
}

func decodeMonsterSpawnLightLevel(v any) MonsterSpawnLightLevel {
	switch t := v.(type) {
	case int32:
		return MonsterSpawnLightLevel{Simple: true, Value: t}
	case *nbt.Compound:
		kind, _ := getString(t, "type")
		var min, max int32
		if inner, ok := t.Get("value"); ok {
			if vc, ok := inner.(*nbt.Compound); ok {
				min, _ = getInt32(vc, "min_inclusive")
				max, _ = getInt32(vc, "max_inclusive")
			}
		}
		return MonsterSpawnLightLevel{Type: kind, Min: min, Max: max}
	default:
		return MonsterSpawnLightLevel{}
	}
}

// Biome is the decoded minecraft:worldgen/biome registry element, ported
// from registry_holder.rs's WorldTypeElement/BiomeEffects.
type Biome struct {
	HasPrecipitation bool
	Temperature      float32
	TemperatureMod   string
	Downfall         float32
	Effects          BiomeEffects
}

// BiomeEffects mirrors the Rust BiomeEffects struct; fields spec.md does not
// name as required (music, particles, sounds) are not decoded or kept.
type BiomeEffects struct {
	SkyColor      int32
	FogColor      int32
	WaterColor    int32
	WaterFogColor int32
	GrassColorMod string
}

func decodeBiome(c *nbt.Compound) (*Biome, error) {
	temp, ok := getFloat32(c, "temperature")
	if !ok {
		return nil, fmt.Errorf("registry: biome missing required field temperature")
	}
	downfall, ok := getFloat32(c, "downfall")
	if !ok {
		return nil, fmt.Errorf("registry: biome missing required field downfall")
	}
	effectsRaw, ok := c.Get("effects")
	if !ok {
		return nil, fmt.Errorf("registry: biome missing required field effects")
	}
	effectsCompound, ok := effectsRaw.(*nbt.Compound)
	if !ok {
		return nil, fmt.Errorf("registry: biome effects is not a compound")
	}

	b := &Biome{
		HasPrecipitation: getBool(c, "has_precipitation"),
		Temperature:      temp,
		Downfall:         downfall,
	}
	if v, ok := getString(c, "temperature_modifier"); ok {
		b.TemperatureMod = v
	}
	sky, _ := getInt32(effectsCompound, "sky_color")
	fog, _ := getInt32(effectsCompound, "fog_color")
	water, _ := getInt32(effectsCompound, "water_color")
	waterFog, _ := getInt32(effectsCompound, "water_fog_color")
	mod, _ := getString(effectsCompound, "grass_color_modifier")
	b.Effects = BiomeEffects{
		SkyColor:      sky,
		FogColor:      fog,
		WaterColor:    water,
		WaterFogColor: waterFog,
		GrassColorMod: mod,
	}
	return b, nil
}

// DamageType is the decoded minecraft:damage_type registry element, ported
// from registry_holder.rs's DamageTypeElement.
type DamageType struct {
	MessageID        string
	Scaling          string
	Exhaustion       float32
	Effects          string
	DeathMessageType string
}

func decodeDamageType(c *nbt.Compound) (*DamageType, error) {
	msgID, ok := getString(c, "message_id")
	if !ok {
		return nil, fmt.Errorf("registry: damage type missing required field message_id")
	}
	scaling, ok := getString(c, "scaling")
	if !ok {
		return nil, fmt.Errorf("registry: damage type missing required field scaling")
	}
	exhaustion, ok := getFloat32(c, "exhaustion")
	if !ok {
		return nil, fmt.Errorf("registry: damage type missing required field exhaustion")
	}
	dmg := &DamageType{MessageID: msgID, Scaling: scaling, Exhaustion: exhaustion}
	if v, ok := getString(c, "effects"); ok {
		dmg.Effects = v
	}
	if v, ok := getString(c, "death_message_type"); ok {
		dmg.DeathMessageType = v
	}
	return dmg, nil
}

func getInt32(c *nbt.Compound, key string) (int32, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int32)
	return i, ok
}

func getFloat32(c *nbt.Compound, key string) (float32, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float32)
	return f, ok
}

func getFloat64(c *nbt.Compound, key string) (float64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func getString(c *nbt.Compound, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getBool(c *nbt.Compound, key string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case int8:
		return t != 0
	case bool:
		return t
	}
	return false
}
