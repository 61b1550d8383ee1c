package daat

import "testing"

func TestPostingBloom_HasNeighbor_Present(t *testing.T) {
	pb := newPostingBloom()
	tokens := []string{"the", "quick", "brown", "fox"}
	for i := range tokens {
		pb.record(1, tokens, i)
	}

	if got := pb.hasNeighbor("quick", "brown", 1); got != BloomPresent {
		t.Errorf("hasNeighbor(quick, brown) = %v, want BloomPresent", got)
	}
}

func TestPostingBloom_HasNeighbor_Unknown(t *testing.T) {
	pb := newPostingBloom()
	if got := pb.hasNeighbor("quick", "brown", 1); got != BloomUnknown {
		t.Errorf("hasNeighbor with no fingerprint = %v, want BloomUnknown", got)
	}

	tokens := []string{"the", "quick", "brown", "fox"}
	for i := range tokens {
		pb.record(1, tokens, i)
	}
	if got := pb.hasNeighbor("quick", "brown", 2); got != BloomUnknown {
		t.Errorf("hasNeighbor(unknown docID) = %v, want BloomUnknown", got)
	}
}

func TestPostingBloom_NeverFalseNegative(t *testing.T) {
	pb := newPostingBloom()
	tokens := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}
	for i := range tokens {
		pb.record(1, tokens, i)
	}

	for i, term := range tokens {
		for j, neighbor := range tokens {
			if i == j {
				continue
			}
			lo, hi := i-bloomWindow, i+bloomWindow
			if j < lo || j > hi {
				continue
			}
			if got := pb.hasNeighbor(term, neighbor, 1); got == BloomNotPresent {
				t.Errorf("hasNeighbor(%s, %s) = BloomNotPresent, want Present or Unknown (real neighbor within window)", term, neighbor)
			}
		}
	}
}

func TestInvertedIndex_HasNextTerm(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox jumps")

	if got := idx.HasNextTerm("quick", "brown", 1); got != BloomPresent {
		t.Errorf("HasNextTerm(quick, brown) = %v, want BloomPresent", got)
	}
}

func TestInvertedIndex_HasPriorTerm(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox jumps")

	if got := idx.HasPriorTerm("brown", "quick", 1); got != BloomPresent {
		t.Errorf("HasPriorTerm(brown, quick) = %v, want BloomPresent", got)
	}
}
