// Package huffman builds a canonical Huffman tree from symbol
// frequencies, with an optional escape leaf for out-of-alphabet symbols.
// Code construction follows the teacher's jpeg/common.HuffmanTable: bit
// lengths per code, then codes assigned in increasing length and value
// order (canonical form), generalized from a fixed 256-symbol JPEG
// table to an arbitrary alphabet size.
package huffman

import (
	"container/heap"
	"sort"

	"github.com/pkg/errors"
)

// ErrEmptyAlphabet is a programmer error: no symbol has nonzero frequency.
var ErrEmptyAlphabet = errors.New("huffman: no symbol has nonzero frequency")

// Code is one symbol's canonical Huffman code.
type Code struct {
	Symbol int
	Length int
	Bits   uint32
}

// Table is a canonical Huffman code table built from frequencies.
type Table struct {
	codes     []Code          // sorted by (length, symbol)
	bySymbol  map[int]Code
	maxSymbol int
}

type node struct {
	freq        uint64
	symbol      int // -1 for internal nodes
	left, right *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].symbol < h[j].symbol
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Build constructs a canonical Huffman table from per-symbol frequencies
// (indexed by symbol value 0..len(freq)-1); zero-frequency symbols are
// excluded from the alphabet. escapeSymbol, if >= 0, is added to the
// alphabet with weight 1 to guarantee it is always representable, even
// if it never occurs in freq.
func Build(freq []uint64, escapeSymbol int) (*Table, error) {
	counts := map[int]uint64{}
	for s, f := range freq {
		if f > 0 {
			counts[s] = f
		}
	}
	if escapeSymbol >= 0 {
		if _, ok := counts[escapeSymbol]; !ok {
			counts[escapeSymbol] = 1
		}
	}
	if len(counts) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if len(counts) == 1 {
		var only int
		for s := range counts {
			only = s
		}
		return &Table{
			codes:    []Code{{Symbol: only, Length: 1, Bits: 0}},
			bySymbol: map[int]Code{only: {Symbol: only, Length: 1, Bits: 0}},
		}, nil
	}

	h := &nodeHeap{}
	for s, f := range counts {
		heap.Push(h, &node{freq: f, symbol: s})
	}
	heap.Init(h)
	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		heap.Push(h, &node{freq: a.freq + b.freq, symbol: -1, left: a, right: b})
	}
	root := heap.Pop(h).(*node)

	lengths := map[int]int{}
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if n.left == nil && n.right == nil {
			if depth == 0 {
				depth = 1
			}
			lengths[n.symbol] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)

	return buildCanonical(lengths), nil
}

// buildCanonical assigns canonical codes given per-symbol bit lengths:
// sort by (length, symbol), then assign consecutive integer codes,
// left-shifting by one bit whenever the length increases.
func buildCanonical(lengths map[int]int) *Table {
	type ls struct {
		symbol, length int
	}
	list := make([]ls, 0, len(lengths))
	for s, l := range lengths {
		list = append(list, ls{s, l})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].length != list[j].length {
			return list[i].length < list[j].length
		}
		return list[i].symbol < list[j].symbol
	})

	t := &Table{bySymbol: make(map[int]Code, len(list))}
	var code uint32
	prevLen := list[0].length
	for _, e := range list {
		code <<= uint(e.length - prevLen)
		prevLen = e.length
		c := Code{Symbol: e.symbol, Length: e.length, Bits: code}
		t.codes = append(t.codes, c)
		t.bySymbol[e.symbol] = c
		code++
	}
	return t
}

// Encode returns the code for symbol s, or an error if s is not in the
// alphabet this table was built from.
func (t *Table) Encode(s int) (Code, error) {
	c, ok := t.bySymbol[s]
	if !ok {
		return Code{}, errors.Errorf("huffman: symbol %d not in alphabet", s)
	}
	return c, nil
}

// Codes returns every canonical code in the table, sorted by (length, bits).
func (t *Table) Codes() []Code {
	return t.codes
}

// decodeNode is an internal trie node used only for decoding.
type decodeNode struct {
	leaf        bool
	symbol      int
	left, right *decodeNode
}

// Decoder walks the canonical codes bit by bit.
type Decoder struct {
	root *decodeNode
}

// NewDecoder builds a decode trie from a table's codes.
func NewDecoder(t *Table) *Decoder {
	root := &decodeNode{}
	for _, c := range t.codes {
		n := root
		for i := c.Length - 1; i >= 0; i-- {
			bit := (c.Bits >> uint(i)) & 1
			if bit == 0 {
				if n.left == nil {
					n.left = &decodeNode{}
				}
				n = n.left
			} else {
				if n.right == nil {
					n.right = &decodeNode{}
				}
				n = n.right
			}
		}
		n.leaf = true
		n.symbol = c.Symbol
	}
	return &Decoder{root: root}
}

// Walker walks the decoder trie one bit per Step call. Once Step
// reports a leaf the walker is spent; the next symbol is decoded with a
// fresh Decoder.NewWalker.
type Walker struct {
	d   *Decoder
	cur *decodeNode
}

// NewWalker starts a new single-symbol decode walk.
func (d *Decoder) NewWalker() *Walker {
	return &Walker{d: d, cur: d.root}
}

// Step consumes one bit; returns (symbol, true) once a leaf is reached.
func (w *Walker) Step(bit int) (int, bool, error) {
	if w.cur == nil {
		return 0, false, errors.New("huffman: walker already at a leaf")
	}
	var next *decodeNode
	if bit == 0 {
		next = w.cur.left
	} else {
		next = w.cur.right
	}
	if next == nil {
		return 0, false, errors.New("huffman: invalid code prefix")
	}
	if next.leaf {
		w.cur = nil
		return next.symbol, true, nil
	}
	w.cur = next
	return 0, false, nil
}
