package nbt

import (
	"bytes"
	"testing"
)

func TestCompoundRoundTrip(t *testing.T) {
	c := &Compound{}
	c.Put("height", int32(384))
	c.Put("min_y", int32(-64))
	c.Put("ultrawarm", int8(0))
	c.Put("name", "minecraft:overworld")
	nested := &Compound{}
	nested.Put("temperature", float32(0.8))
	c.Put("effects", nested)

	var buf bytes.Buffer
	if err := EncodeUnnamed(&buf, c); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeUnnamed(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	height, ok := got.Get("height")
	if !ok || height.(int32) != 384 {
		t.Fatalf("height = %v, ok=%v", height, ok)
	}
	effects, ok := got.Get("effects")
	if !ok {
		t.Fatal("missing effects compound")
	}
	temp, ok := effects.(*Compound).Get("temperature")
	if !ok || temp.(float32) != 0.8 {
		t.Fatalf("temperature = %v", temp)
	}
}

func TestNamedRootRoundTrip(t *testing.T) {
	c := &Compound{}
	c.Put("scaling", "when_dimension_linear")
	var buf bytes.Buffer
	if err := EncodeNamed(&buf, "", c); err != nil {
		t.Fatal(err)
	}
	name, got, err := DecodeNamed(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if name != "" {
		t.Fatalf("expected empty root name, got %q", name)
	}
	v, _ := got.Get("scaling")
	if v != "when_dimension_linear" {
		t.Fatalf("scaling = %v", v)
	}
}
