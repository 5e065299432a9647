package region

import "testing"

func TestNewBlockMaskTilesInBlocks(t *testing.T) {
	m, err := NewBlockMask(4, 4, 2)
	if err != nil {
		t.Fatalf("NewBlockMask: %v", err)
	}
	want := [4][4]int32{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
		{2, 2, 3, 3},
		{2, 2, 3, 3},
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if got := m.At(r, c); got != want[r][c] {
				t.Fatalf("At(%d,%d) = %d, want %d", r, c, got, want[r][c])
			}
		}
	}
}

func TestNewBlockMaskClipsTrailingBlock(t *testing.T) {
	m, err := NewBlockMask(3, 3, 2)
	if err != nil {
		t.Fatalf("NewBlockMask: %v", err)
	}
	// Blocks: (0,0)-(1,1)=0, (0,2)-(1,2)=1, (2,0)-(2,1)=2, (2,2)=3.
	if m.At(0, 0) != m.At(1, 1) {
		t.Fatalf("top-left 2x2 block should share a label")
	}
	if m.At(0, 2) == m.At(0, 0) {
		t.Fatalf("clipped trailing column should be its own label")
	}
	if got := m.Canonicalize(); got != 4 {
		t.Fatalf("expected 4 regions after clipping, got %d", got)
	}
}

func TestNewBlockMaskRejectsNonPositiveBlockSize(t *testing.T) {
	if _, err := NewBlockMask(4, 4, 0); err == nil {
		t.Fatal("expected an error for a zero block size")
	}
	if _, err := NewBlockMask(4, 4, -1); err == nil {
		t.Fatal("expected an error for a negative block size")
	}
}

func TestNewBlockMaskSingleBlockCoversEverything(t *testing.T) {
	m, err := NewBlockMask(3, 5, 100)
	if err != nil {
		t.Fatalf("NewBlockMask: %v", err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			if m.At(r, c) != 0 {
				t.Fatalf("At(%d,%d) = %d, want 0 (block size larger than image)", r, c, m.At(r, c))
			}
		}
	}
}
