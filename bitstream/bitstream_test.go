package bitstream

import (
	"bytes"
	"testing"
)

func TestAppendReadRoundTrip(t *testing.T) {
	type entry struct {
		value uint64
		width int
	}
	entries := []entry{
		{0, 1}, {1, 1}, {0b101, 3}, {0xFF, 8}, {0x1234, 16},
		{0, 0}, {0xFFFFFFFFFFFFFFFF, 64}, {12345, 20},
	}

	bs := New()
	for _, e := range entries {
		if err := bs.Append(e.value, e.width); err != nil {
			t.Fatalf("append(%d,%d): %v", e.value, e.width, err)
		}
	}

	r := NewReader(bs)
	for _, e := range entries {
		got, err := r.Read(e.width)
		if err != nil {
			t.Fatalf("read width %d: %v", e.width, err)
		}
		if got != e.value {
			t.Fatalf("read width %d: got %d, want %d", e.width, got, e.value)
		}
	}
}

func TestAppendOverflowIsError(t *testing.T) {
	bs := New()
	if err := bs.Append(0b100, 2); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestPadToByte(t *testing.T) {
	bs := New()
	_ = bs.Append(0b101, 3)
	if err := bs.PadToByte(); err != nil {
		t.Fatal(err)
	}
	if bs.Size()%8 != 0 {
		t.Fatalf("size %d not byte-aligned", bs.Size())
	}
	if bs.Size() != 8 {
		t.Fatalf("expected pad to 8 bits, got %d", bs.Size())
	}
}

func TestAppendStreamAndReadSubstreamRoundTrip(t *testing.T) {
	inner := New()
	_ = inner.Append(0xABCD, 16)
	_ = inner.Append(0b1, 1)

	outer := New()
	_ = outer.Append(0b11, 2)
	if err := outer.AppendStream(inner); err != nil {
		t.Fatal(err)
	}

	r := NewReader(outer)
	if v, _ := r.Read(2); v != 0b11 {
		t.Fatalf("prefix mismatch: %b", v)
	}
	sub, err := r.ReadSubstream(inner.Size())
	if err != nil {
		t.Fatal(err)
	}
	if sub.Size() != inner.Size() {
		t.Fatalf("substream size mismatch: %d vs %d", sub.Size(), inner.Size())
	}
	subReader := NewReader(sub)
	innerReader := NewReader(inner)
	for i := 0; i < inner.Size(); i++ {
		a, _ := subReader.Read(1)
		b, _ := innerReader.Read(1)
		if a != b {
			t.Fatalf("bit %d mismatch: %d vs %d", i, a, b)
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	bs := New()
	_ = bs.Append(0x1, 1)
	_ = bs.Append(0xDEAD, 16)
	_ = bs.Append(0x7, 3)
	_ = bs.PadToByte()

	var buf bytes.Buffer
	if err := bs.WriteFile(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size() != bs.Size() {
		t.Fatalf("size mismatch: %d vs %d", got.Size(), bs.Size())
	}
	r1, r2 := NewReader(bs), NewReader(got)
	for i := 0; i < bs.Size(); i++ {
		a, _ := r1.Read(1)
		b, _ := r2.Read(1)
		if a != b {
			t.Fatalf("bit %d mismatch", i)
		}
	}
}
