package bitstream

import (
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// WriteFile persists bs as: u32 word_count | u32 tail_bits_used |
// word_count x u64 little-endian words. The two header fields are
// written MSB-first via bitio (big-endian byte order); the word payload
// is packed explicitly little-endian per spec, then handed to bitio as
// raw bytes so the whole file goes through one bit-level writer.
func (bs *BitStream) WriteFile(w io.Writer) error {
	bw := bitio.NewWriter(w)

	wordCount := len(bs.words)
	tailBits := bs.nbits - (wordCount-1)*wordBits
	if wordCount == 0 {
		tailBits = 0
	}

	if err := bw.WriteBits(uint64(wordCount), 32); err != nil {
		return errors.Wrap(err, "bitstream: write word_count")
	}
	if err := bw.WriteBits(uint64(tailBits), 32); err != nil {
		return errors.Wrap(err, "bitstream: write tail_bits_used")
	}

	buf := make([]byte, 8*wordCount)
	for i, word := range bs.words {
		binary.LittleEndian.PutUint64(buf[i*8:], word)
	}
	if _, err := bw.Write(buf); err != nil {
		return errors.Wrap(err, "bitstream: write words")
	}
	return errors.Wrap(bw.Close(), "bitstream: close writer")
}

// ReadFile reconstructs a BitStream previously written by WriteFile.
func ReadFile(r io.Reader) (*BitStream, error) {
	br := bitio.NewReader(r)

	wordCount64, err := br.ReadBits(32)
	if err != nil {
		return nil, errors.Wrap(err, "bitstream: read word_count")
	}
	tailBits64, err := br.ReadBits(32)
	if err != nil {
		return nil, errors.Wrap(err, "bitstream: read tail_bits_used")
	}
	wordCount := int(wordCount64)
	tailBits := int(tailBits64)

	buf := make([]byte, 8*wordCount)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, errors.Wrap(err, "bitstream: read words")
	}

	words := make([]uint64, wordCount)
	nbits := 0
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*8:])
		if i < wordCount-1 {
			nbits += wordBits
		} else {
			nbits += tailBits
		}
	}
	if wordCount == 0 {
		nbits = 0
	}
	return &BitStream{words: words, nbits: nbits}, nil
}
