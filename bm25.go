package daat

import "math"

// ═══════════════════════════════════════════════════════════════════════════════
// BM25 SIMILARITY
// ═══════════════════════════════════════════════════════════════════════════════
// score(d) = Σ_i idf(t_i) * (tf_i*(k1+1)) / (tf_i + k1*(1-b+b*|d|/avg|d|))
// idf(t)    = ln(1 + (N - df(t) + 0.5) / (df(t) + 0.5))
//
// Defaults K1=1.2, B=0.75. df(t) comes from the term's roaring bitmap
// cardinality (O(1) instead of walking the posting list); |d| and avg|d|
// come from the exact DocStats/TotalTerms bookkeeping built at index time,
// not from the lossy DocLengthStore byte quantization — BM25's length
// normalization term is sensitive enough to quantization drift that the
// exact running totals are used instead, and DocLengthStore is reserved
// for the GetDocLength external-interface accessor.
// ═══════════════════════════════════════════════════════════════════════════════

// IDF returns the inverse document frequency of term.
func (idx *InvertedIndex) IDF(term string) float64 {
	bitmap, exists := idx.DocBitmaps[term]
	if !exists {
		return 0.0
	}

	df := float64(bitmap.GetCardinality())
	if df == 0 {
		return 0.0
	}

	n := float64(idx.TotalDocs)
	return math.Log((n-df+0.5)/(df+0.5) + 1.0)
}

// BM25Score computes the BM25 score of docID against queryTerms.
func (idx *InvertedIndex) BM25Score(docID int, queryTerms []string) float64 {
	docStats, exists := idx.DocStats[docID]
	if !exists {
		return 0.0
	}

	avgDocLen := float64(idx.TotalTerms) / float64(idx.TotalDocs)
	docLen := float64(docStats.Length)

	k1 := idx.BM25Params.K1
	b := idx.BM25Params.B

	score := 0.0
	for _, term := range queryTerms {
		tf := float64(docStats.TermFreqs[term])
		if tf == 0 {
			continue
		}
		idf := idx.IDF(term)
		numerator := tf * (k1 + 1)
		denominator := tf + k1*(1-b+b*(docLen/avgDocLen))
		score += idf * (numerator / denominator)
	}
	return score
}
