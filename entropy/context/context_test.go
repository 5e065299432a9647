package context

import (
	"testing"

	"github.com/cocosip/multicut-codec/bitstream"
)

func bitsOfByte(b byte) []int {
	out := make([]int, 8)
	for i := 0; i < 8; i++ {
		out[i] = int((b >> uint(7-i)) & 1)
	}
	return out
}

func TestNaiveRoundTrip(t *testing.T) {
	bits := []int{1, 0, 1, 1, 0, 0, 0, 1}
	bs := bitstream.New()
	enc := NewNaiveEncoder(bs)
	for _, b := range bits {
		if err := enc.EncodeBit(b, nil); err != nil {
			t.Fatal(err)
		}
	}

	r := bitstream.NewReader(bs)
	dec := NewNaiveDecoder(r)
	for i, want := range bits {
		got, err := dec.DecodeBit(nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d want %d", i, got, want)
		}
	}
}

func TestBlockRoundTrip(t *testing.T) {
	var bits []int
	for i := 0; i < 20; i++ {
		bits = append(bits, bitsOfByte(byte(i*37))...)
	}

	bs := bitstream.New()
	enc, err := NewBlockEncoder(bs, 4, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bits {
		_ = enc.EncodeBit(b, nil)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	r := bitstream.NewReader(bs)
	dec, err := NewBlockDecoder(r, 4, 10, len(bits))
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Initialize(); err != nil {
		t.Fatal(err)
	}
	for i, want := range bits {
		got, err := dec.DecodeBit(nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d want %d", i, got, want)
		}
	}
}

func TestBlockFullAlphabetFrequencyTableS6(t *testing.T) {
	var bits []int
	for rep := 0; rep < 2; rep++ {
		for i := 0; i < 256; i++ {
			bits = append(bits, bitsOfByte(byte(i))...)
		}
	}

	bs := bitstream.New()
	enc, err := NewBlockEncoder(bs, 8, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bits {
		_ = enc.EncodeBit(b, nil)
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	r := bitstream.NewReader(bs)
	for i := 0; i < 256; i++ {
		v, err := r.Read(10)
		if err != nil {
			t.Fatal(err)
		}
		if v != 1023 {
			t.Fatalf("freq table entry %d: got %d want 1023", i, v)
		}
	}
}

func TestAdaptiveRoundTripS5(t *testing.T) {
	var bits []int
	for i := 0; i < 1000; i++ {
		bits = append(bits, bitsOfByte(0x5A)...)
	}

	bs := bitstream.New()
	enc := NewAdaptiveEncoder(bs, 4096, 4)
	for _, b := range bits {
		if err := enc.EncodeBit(b, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Finalize(); err != nil {
		t.Fatal(err)
	}

	r := bitstream.NewReader(bs)
	dec := NewAdaptiveDecoder(r, 4096, 4)
	if err := dec.Initialize(); err != nil {
		t.Fatal(err)
	}
	for i, want := range bits {
		got, err := dec.DecodeBit(nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("bit %d: got %d want %d", i, got, want)
		}
	}
}
