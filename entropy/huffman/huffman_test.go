package huffman

import "testing"

func TestBuildAndDecodeRoundTrip(t *testing.T) {
	freq := []uint64{10, 1, 1, 5, 0, 3}
	table, err := Build(freq, -1)
	if err != nil {
		t.Fatal(err)
	}

	for s, f := range freq {
		if f == 0 {
			continue
		}
		c, err := table.Encode(s)
		if err != nil {
			t.Fatalf("symbol %d: %v", s, err)
		}

		dec := NewDecoder(table)
		w := dec.NewWalker()
		var got int
		var ok bool
		for i := c.Length - 1; i >= 0; i-- {
			bit := int((c.Bits >> uint(i)) & 1)
			got, ok, err = w.Step(bit)
			if err != nil {
				t.Fatal(err)
			}
		}
		if !ok || got != s {
			t.Fatalf("symbol %d: decode got %d ok=%v", s, got, ok)
		}
	}
}

func TestSingleSymbolAlphabet(t *testing.T) {
	freq := []uint64{0, 0, 7}
	table, err := Build(freq, -1)
	if err != nil {
		t.Fatal(err)
	}
	c, err := table.Encode(2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Length != 1 {
		t.Fatalf("expected length 1, got %d", c.Length)
	}
}

func TestEmptyAlphabetIsError(t *testing.T) {
	if _, err := Build([]uint64{0, 0, 0}, -1); err == nil {
		t.Fatal("expected error for empty alphabet")
	}
}

func TestEscapeSymbolAlwaysPresent(t *testing.T) {
	freq := []uint64{5, 3}
	table, err := Build(freq, 9)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Encode(9); err != nil {
		t.Fatalf("escape symbol should be encodable: %v", err)
	}
}
