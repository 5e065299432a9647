// Package unionfind implements union-find augmented with explicit
// "known-disjoint" root pairs, so is_disjoint is an O(1) membership test
// rather than requiring a separate graph coloring pass. Used by the
// multicut-aware codec (spec.md §4.7.3) to skip edges whose joined/cut
// status is already implied by earlier decisions.
package unionfind

// UnionFind is a disjoint-set forest with path compression and
// union-by-rank, plus a per-root set of roots known to be in a
// different class.
type UnionFind struct {
	parent    []int
	rank      []int
	disjoint  []map[int]struct{}
}

// New creates a UnionFind over n singleton elements {0, ..., n-1}.
func New(n int) *UnionFind {
	uf := &UnionFind{
		parent:   make([]int, n),
		rank:     make([]int, n),
		disjoint: make([]map[int]struct{}, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative root of x's class, compressing the
// path from x to the root.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// IsUnion reports whether a and b are currently in the same class.
func (uf *UnionFind) IsUnion(a, b int) bool {
	return uf.Find(a) == uf.Find(b)
}

// IsDisjoint reports whether a and b have been explicitly recorded as
// being in different classes via MakeDisjoint.
func (uf *UnionFind) IsDisjoint(a, b int) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	if uf.disjoint[ra] == nil {
		return false
	}
	_, ok := uf.disjoint[ra][rb]
	return ok
}

// MakeUnion merges the classes containing a and b, by rank. When two
// classes merge, the absorbed root's disjoint set is relabeled into the
// survivor's: every element that was known-disjoint from the absorbed
// root becomes known-disjoint from the survivor instead.
func (uf *UnionFind) MakeUnion(a, b int) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	// rb (lower or equal rank) is absorbed into ra.
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	uf.relabelDisjoint(rb, ra)
}

// relabelDisjoint absorbs old's disjoint-set bookkeeping into survivor:
// for every root d known-disjoint from old, replace old with survivor
// in d's own disjoint set, then fold old's disjoint set into
// survivor's, and clear old's.
func (uf *UnionFind) relabelDisjoint(old, survivor int) {
	for d := range uf.disjoint[old] {
		if d == survivor {
			continue
		}
		if uf.disjoint[d] != nil {
			delete(uf.disjoint[d], old)
			uf.disjoint[d][survivor] = struct{}{}
		}
		if uf.disjoint[survivor] == nil {
			uf.disjoint[survivor] = make(map[int]struct{})
		}
		uf.disjoint[survivor][d] = struct{}{}
	}
	uf.disjoint[old] = nil
}

// MakeDisjoint records that a and b's classes are known to be
// different, without merging anything. It is the caller's
// responsibility not to later MakeUnion the same pair; IsUnion and
// IsDisjoint remain internally consistent regardless (IsUnion reflects
// the union structure, IsDisjoint reflects recorded disjointness), but
// a caller that does both has introduced a logical contradiction.
func (uf *UnionFind) MakeDisjoint(a, b int) {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return
	}
	if uf.disjoint[ra] == nil {
		uf.disjoint[ra] = make(map[int]struct{})
	}
	if uf.disjoint[rb] == nil {
		uf.disjoint[rb] = make(map[int]struct{})
	}
	uf.disjoint[ra][rb] = struct{}{}
	uf.disjoint[rb][ra] = struct{}{}
}
