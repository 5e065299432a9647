package arith

import (
	"math/rand"
	"testing"

	"github.com/cocosip/multicut-codec/bitstream"
	"github.com/cocosip/multicut-codec/entropy"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	table := entropy.NewFrequencyTable([]uint64{5, 1, 3, 0, 8})
	rng := rand.New(rand.NewSource(1))
	symbols := make([]int, 500)
	weighted := []int{0, 0, 0, 0, 0, 1, 2, 2, 2, 4, 4, 4, 4, 4, 4, 4, 4}
	for i := range symbols {
		symbols[i] = weighted[rng.Intn(len(weighted))]
	}

	payload, err := EncodeSymbols(table, symbols)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSymbols(table, payload, len(symbols))
	if err != nil {
		t.Fatal(err)
	}
	for i := range symbols {
		if got[i] != symbols[i] {
			t.Fatalf("symbol %d: got %d, want %d", i, got[i], symbols[i])
		}
	}
}

func TestZeroFrequencySymbolIsError(t *testing.T) {
	table := entropy.NewFrequencyTable([]uint64{1, 0, 1})
	enc := NewEncoder()
	if err := enc.EncodeSymbol(table, 1); err == nil {
		t.Fatal("expected error encoding zero-frequency symbol")
	}
}

func TestFramedRoundTrip(t *testing.T) {
	table := entropy.NewFrequencyTable([]uint64{2, 2, 4})
	symbols := []int{0, 1, 2, 2, 1, 0, 2}

	bs := bitstream.New()
	_ = bs.Append(0b101, 3) // some unrelated prefix data
	if err := WriteFramed(bs, table, symbols); err != nil {
		t.Fatal(err)
	}
	_ = bs.Append(0b11, 2) // trailing data after the frame

	r := bitstream.NewReader(bs)
	if v, _ := r.Read(3); v != 0b101 {
		t.Fatalf("prefix mismatch: %b", v)
	}
	got, err := ReadFramed(r, table, len(symbols))
	if err != nil {
		t.Fatal(err)
	}
	for i := range symbols {
		if got[i] != symbols[i] {
			t.Fatalf("symbol %d mismatch: got %d want %d", i, got[i], symbols[i])
		}
	}
	if v, _ := r.Read(2); v != 0b11 {
		t.Fatalf("suffix mismatch: %b", v)
	}
}
