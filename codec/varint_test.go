package codec

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 25565, -2147483648, 2147483647}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		if _, err := WriteVarInt(buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		if got := VarIntSize(v); got != buf.Len() {
			t.Errorf("VarIntSize(%d) = %d, wrote %d bytes", v, got, buf.Len())
		}
		got, _, err := ReadVarInt(buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestVarIntTooBig(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	if _, _, err := ReadVarInt(buf); err != ErrVarIntTooBig {
		t.Fatalf("expected ErrVarIntTooBig, got %v", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		buf := new(bytes.Buffer)
		if _, err := WriteVarLong(buf, v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}
		got, _, err := ReadVarLong(buf)
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}
