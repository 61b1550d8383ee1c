package daat

import (
	"container/heap"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/RoaringBitmap/roaring"
)

// Match represents a single scored search result.
type Match struct {
	DocID   int        // Document identifier
	Offsets []Position // Where the match was found [start, end]
	Score   float64    // Relevance score (higher is more relevant)

	// PositionTable is the phrase verifier's columnar output (one row per
	// query term, one column per in-document match), populated only for
	// phrase queries with two or more terms that actually matched.
	PositionTable [][]PositionColumn

	// TermOffsets holds, per query term, the offset-pair stream the
	// highlighter should render: the full stream for a non-phrase query,
	// or only the pairs PositionTable's term_appearance_index selected
	// for a phrase query.
	TermOffsets [][]OffsetPair
}

// GetKey returns a stable identifier for the match.
func (m *Match) GetKey() (string, error) {
	data, err := json.Marshal(m.DocID)
	if err != nil {
		return "", err
	}
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:]), nil
}

func sortMatchesByScore(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

func limitResults(matches []Match, maxResults int) []Match {
	if maxResults < 0 || maxResults > len(matches) {
		maxResults = len(matches)
	}
	return matches[:maxResults]
}

// ═══════════════════════════════════════════════════════════════════════════════
// TOP-K HEAP
// ═══════════════════════════════════════════════════════════════════════════════
// A fixed-capacity min-heap keyed by score: once full, a new candidate is
// only admitted if it strictly beats the current minimum, which is then
// evicted. Draining and reversing the heap at the end yields results in
// descending-score order; ties are broken by insertion order (the earlier
// candidate wins), matching container/heap's stable ordering when Less
// only breaks ties on a monotonic sequence number.
// ═══════════════════════════════════════════════════════════════════════════════

type scoredEntry struct {
	match Match
	seq   int
}

type topKHeap struct {
	entries []scoredEntry
	cap     int
	nextSeq int
}

func newTopKHeap(capacity int) *topKHeap {
	return &topKHeap{cap: capacity}
}

func (h *topKHeap) Len() int { return len(h.entries) }
func (h *topKHeap) Less(i, j int) bool {
	if h.entries[i].match.Score != h.entries[j].match.Score {
		return h.entries[i].match.Score < h.entries[j].match.Score
	}
	return h.entries[i].seq > h.entries[j].seq
}
func (h *topKHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }
func (h *topKHeap) Push(x any)    { h.entries = append(h.entries, x.(scoredEntry)) }
func (h *topKHeap) Pop() any {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[:n-1]
	return item
}

// Offer admits match if the heap has spare capacity, or if match beats the
// current minimum-scoring entry.
func (h *topKHeap) Offer(match Match) {
	entry := scoredEntry{match: match, seq: h.nextSeq}
	h.nextSeq++

	if h.cap <= 0 || h.Len() < h.cap {
		heap.Push(h, entry)
		return
	}
	if h.Len() > 0 && entry.match.Score > h.entries[0].match.Score {
		heap.Pop(h)
		heap.Push(h, entry)
	}
}

// Drain empties the heap into a slice ordered by descending score.
func (h *topKHeap) Drain() []Match {
	out := make([]Match, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(scoredEntry).match
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// QUERY PROCESSORS: DAAT Skip-Intersection over Posting-List Iterators
// ═══════════════════════════════════════════════════════════════════════════════
// Dispatched by (term count, phrase?), mirroring the original system's
// QueryProcessor family:
//
//   - one term: walk its posting-list iterator start to end, scoring every
//     doc it names (SingleTermQueryProcessor). A phrase query with a single
//     term degrades to this silently, per spec.
//   - two terms: classic leap-frog over both iterators' DocId()/Advance()/
//     SkipForward() (TwoTermNonPhraseQueryProcessor) - whichever iterator
//     trails gets skipped forward to the other's doc id; a match advances
//     both.
//   - three or more terms: a roaring-bitmap AND prefilter (the package's
//     DocBitmaps) first narrows the candidate doc ids cheaply, then each
//     candidate is confirmed against the real posting-list iterators via
//     SkipForward before scoring, so the DAAT walk only ever inspects doc
//     ids that already survived the bitmap intersection.
//
// A phrase query additionally verifies the exact consecutive-position match
// per candidate document using the PostingPositionIterator-based verifier in
// phrase.go, bloom-pruning pairs the sidecar can already certify don't
// co-occur nearby before paying for that verification.
// ═══════════════════════════════════════════════════════════════════════════════

// Search runs query against idx and returns up to k top-scoring matches.
// An empty query, or a query whose terms never appear in the index, is not
// an error - it simply returns no results. n_results == 0 also returns no
// results, without touching the index: this is an explicit boundary, not an
// accidental side effect of an unbounded heap (newTopKHeap(0) means
// "unbounded" for every other caller of that type, so the guard belongs
// here rather than inside topKHeap).
func (idx *InvertedIndex) Search(query Query, k int) []Match {
	terms := query.Terms
	if len(terms) == 0 {
		return nil
	}
	if k <= 0 {
		return nil
	}

	iters := make([]*PostingListIterator, len(terms))
	for i, term := range terms {
		pl, ok := idx.postingList(term)
		if !ok {
			return nil
		}
		iters[i] = pl.Iterator()
	}

	phrase := query.Phrase && len(terms) > 1

	switch {
	case len(terms) == 1:
		return idx.searchSingleTerm(terms, iters[0], k)
	case len(terms) == 2:
		return idx.searchTwoTerm(terms, iters, phrase, k)
	default:
		return idx.searchGeneral(terms, iters, phrase, k)
	}
}

// searchSingleTerm walks one posting-list iterator start to end.
func (idx *InvertedIndex) searchSingleTerm(terms []string, it *PostingListIterator, k int) []Match {
	h := newTopKHeap(k)
	for !it.IsEnd() {
		idx.rankCandidate(h, terms, it.DocId(), false, []*PostingListIterator{it})
		it.Advance()
	}
	return h.Drain()
}

// searchTwoTerm leap-frogs both iterators: whichever trails is skipped
// forward to the other's doc id, a match scores and advances both.
func (idx *InvertedIndex) searchTwoTerm(terms []string, iters []*PostingListIterator, phrase bool, k int) []Match {
	h := newTopKHeap(k)
	it0, it1 := iters[0], iters[1]

	for !it0.IsEnd() && !it1.IsEnd() {
		doc0, doc1 := it0.DocId(), it1.DocId()
		switch {
		case doc0 > doc1:
			it1.SkipForward(doc0)
		case doc0 < doc1:
			it0.SkipForward(doc1)
		default:
			idx.rankCandidate(h, terms, doc0, phrase, iters)
			it0.Advance()
			it1.Advance()
		}
	}
	return h.Drain()
}

// searchGeneral handles three or more terms: a bitmap AND prefilter yields
// the candidate doc ids cheaply, then every iterator is skipped forward to
// confirm each candidate against the real posting lists before scoring.
func (idx *InvertedIndex) searchGeneral(terms []string, iters []*PostingListIterator, phrase bool, k int) []Match {
	var candidates *roaring.Bitmap
	for i, term := range terms {
		bitmap, ok := idx.DocBitmaps[term]
		if !ok {
			return nil
		}
		if i == 0 {
			candidates = bitmap.Clone()
		} else {
			candidates.And(bitmap)
		}
	}
	if candidates == nil || candidates.IsEmpty() {
		return nil
	}

	h := newTopKHeap(k)
	cit := candidates.Iterator()
	for cit.HasNext() {
		target := int(cit.Next())

		matched := true
		ended := false
		for _, it := range iters {
			it.SkipForward(target)
			if it.Err() != nil {
				idx.Logger.Error("corrupt posting list", "term", it.Term(), "err", it.Err())
				ended = true
				break
			}
			if it.IsEnd() {
				ended = true
				break
			}
			if it.DocId() != target {
				matched = false
			}
		}
		if ended {
			break
		}
		if !matched {
			continue
		}

		idx.rankCandidate(h, terms, target, phrase, iters)
	}
	return h.Drain()
}

// rankCandidate verifies (for phrase queries) and scores docID, pushing a
// Match onto h if it passes. iters must already be positioned at docID.
func (idx *InvertedIndex) rankCandidate(h *topKHeap, terms []string, docID int, phrase bool, iters []*PostingListIterator) {
	var table [][]PositionColumn

	if phrase {
		if idx.phraseBloomRejects(terms, docID) {
			return
		}
		table = idx.verifyPhraseAtCandidate(iters)
		if len(table) == 0 || len(table[0]) == 0 {
			return
		}
	}

	score := idx.BM25Score(docID, terms)
	if score <= 0 {
		return
	}

	h.Offer(Match{
		DocID:         docID,
		Score:         score,
		PositionTable: table,
		TermOffsets:   idx.collectOffsets(iters, table),
	})
}

// verifyPhraseAtCandidate runs the phrase verifier over a fresh position
// iterator per term, each assigned from its posting-list iterator's current
// (already-matched) posting.
func (idx *InvertedIndex) verifyPhraseAtCandidate(iters []*PostingListIterator) [][]PositionColumn {
	posIters := make([]*PostingPositionIterator, len(iters))
	for i, it := range iters {
		posIters[i] = &PostingPositionIterator{}
		it.AssignPositionBegin(posIters[i])
	}
	return verifyPhrase(posIters)
}

// collectOffsets gathers, per query term, the offset-pair stream the
// highlighter should render: every offset pair for a non-phrase match, or
// only the pairs table's term_appearance_index selected for a phrase match.
func (idx *InvertedIndex) collectOffsets(iters []*PostingListIterator, table [][]PositionColumn) [][]OffsetPair {
	out := make([][]OffsetPair, len(iters))
	for i, it := range iters {
		offIter := it.OffsetPairsBegin()
		if table == nil {
			for offIter.HasNext() {
				out[i] = append(out[i], offIter.Next())
			}
			continue
		}
		if i >= len(table) {
			continue
		}
		for _, col := range table[i] {
			out[i] = append(out[i], offIter.At(col.TermAppearance))
		}
	}
	return out
}

// phraseBloomRejects reports whether the bloom sidecar can already certify
// that consecutive query terms do not co-occur near each other in docID,
// letting the caller skip the exact phrase check entirely.
func (idx *InvertedIndex) phraseBloomRejects(terms []string, docID int) bool {
	for i := 0; i+1 < len(terms); i++ {
		if idx.HasNextTerm(terms[i], terms[i+1], docID) == BloomNotPresent {
			return true
		}
	}
	return false
}
