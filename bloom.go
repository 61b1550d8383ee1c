package daat

import (
	"hash/fnv"

	"github.com/bits-and-blooms/bitset"
)

// BloomPresence is the three-way answer a bloom-filter sidecar gives to
// "does this term co-occur nearby": NOT_PRESENT is certain (a bloom filter
// never produces a false negative), PRESENT may be a false positive (two
// tokens can hash to the same bit), and UNKNOWN means no fingerprint was
// recorded for that (term, document); on PRESENT or UNKNOWN the caller must
// fall back to the exact posting-list check.
type BloomPresence int

const (
	BloomUnknown BloomPresence = iota
	BloomPresent
	BloomNotPresent
)

// BloomNeverUse mirrors the original system's BLOOM_NEVER_USE constant. No
// query processor in this package has an enable factor that reads it:
// phrase queries always consult the bloom sidecar before the exact
// position check.
const BloomNeverUse = -1

// bloomWindow is the number of tokens on each side of an occurrence whose
// hashes get folded into that occurrence's fingerprint.
const bloomWindow = 5

// bloomBits is the fingerprint width in bits, small enough to keep one
// sidecar cheap per posting while still giving a useful false-positive
// rate for a handful-of-tokens window.
const bloomBits = 64

// postingBloom is the per-(term, docID) fingerprint of tokens that occur
// within bloomWindow of any occurrence of term in that document. It
// supports phrase-query pruning: before walking the exact skip-list
// positions to verify "brown fox" is a real phrase, the processor can
// check whether "fox" is even plausibly nearby "brown" in that document.
type postingBloom struct {
	fingerprints map[string]map[int]*bitset.BitSet // term -> docID -> fingerprint
}

func newPostingBloom() *postingBloom {
	return &postingBloom{fingerprints: make(map[string]map[int]*bitset.BitSet)}
}

func bloomToken(token string) uint {
	h := fnv.New64a()
	h.Write([]byte(token))
	return uint(h.Sum64() % bloomBits)
}

// record folds every token in the window around position i of tokens into
// docID's fingerprint for tokens[i].
func (pb *postingBloom) record(docID int, tokens []string, i int) {
	term := tokens[i]
	byDoc, ok := pb.fingerprints[term]
	if !ok {
		byDoc = make(map[int]*bitset.BitSet)
		pb.fingerprints[term] = byDoc
	}
	bs, ok := byDoc[docID]
	if !ok {
		bs = bitset.New(bloomBits)
		byDoc[docID] = bs
	}

	lo := i - bloomWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + bloomWindow
	if hi >= len(tokens) {
		hi = len(tokens) - 1
	}
	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		bs.Set(bloomToken(tokens[j]))
	}
}

// hasNeighbor reports whether neighbor might occur near term within docID.
// Returns BloomUnknown if no fingerprint was recorded for (term, docID).
func (pb *postingBloom) hasNeighbor(term, neighbor string, docID int) BloomPresence {
	byDoc, ok := pb.fingerprints[term]
	if !ok {
		return BloomUnknown
	}
	bs, ok := byDoc[docID]
	if !ok {
		return BloomUnknown
	}
	if bs.Test(bloomToken(neighbor)) {
		return BloomPresent
	}
	return BloomNotPresent
}

// HasNextTerm reports whether next might appear within bloomWindow tokens
// after an occurrence of term in docID, per the three-way bloom contract.
func (idx *InvertedIndex) HasNextTerm(term, next string, docID int) BloomPresence {
	return idx.bloom.hasNeighbor(term, next, docID)
}

// HasPriorTerm reports whether prior might appear within bloomWindow tokens
// before an occurrence of term in docID, per the three-way bloom contract.
func (idx *InvertedIndex) HasPriorTerm(term, prior string, docID int) BloomPresence {
	return idx.bloom.hasNeighbor(term, prior, docID)
}
