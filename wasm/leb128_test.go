package wasm

import (
	"bytes"
	"testing"
)

func TestAppendUleb(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
	}
	for _, c := range cases {
		got := AppendUleb(nil, c.v)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("AppendUleb(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func TestAppendSleb(t *testing.T) {
	cases := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-64, []byte{0x40}},
		{-123456, []byte{0xc0, 0xbb, 0x78}},
	}
	for _, c := range cases {
		got := AppendSleb(nil, c.v)
		if !bytes.Equal(got, c.want) {
			t.Fatalf("AppendSleb(%d) = %x, want %x", c.v, got, c.want)
		}
	}
}

func TestAppendKeepsPrefix(t *testing.T) {
	out := AppendUleb([]byte{0xaa}, 5)
	if !bytes.Equal(out, []byte{0xaa, 0x05}) {
		t.Fatalf("Append should preserve prefix, got %x", out)
	}
}
