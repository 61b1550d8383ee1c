package daat

import "testing"

// newWorkedCorpus builds the three-document corpus used throughout spec
// scenarios: D0="hello world", D1="hello wisconsin", D2="hello world big world".
func newWorkedCorpus() *InvertedIndex {
	idx := NewInvertedIndex()
	idx.AddDocument(0, "hello world")
	idx.AddDocument(1, "hello wisconsin")
	idx.AddDocument(2, "hello world big world")
	return idx
}

func closeEnough(got, want, tolerance float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func TestBM25Score_SingleRareTerm(t *testing.T) {
	idx := newWorkedCorpus()

	score := idx.BM25Score(1, []string{"wisconsin"})
	if !closeEnough(score, 1.09, 0.01) {
		t.Errorf("BM25Score(D1, wisconsin) = %.4f, want ~1.09", score)
	}
}

func TestBM25Score_CommonTerm(t *testing.T) {
	idx := newWorkedCorpus()

	scoreD0 := idx.BM25Score(0, []string{"hello"})
	scoreD2 := idx.BM25Score(2, []string{"hello"})

	if !closeEnough(scoreD0, 0.149, 0.005) {
		t.Errorf("BM25Score(D0, hello) = %.4f, want ~0.149", scoreD0)
	}
	if !closeEnough(scoreD2, 0.111, 0.005) {
		t.Errorf("BM25Score(D2, hello) = %.4f, want ~0.111", scoreD2)
	}
	if scoreD0 <= scoreD2 {
		t.Errorf("expected D0 (shorter doc) to outscore D2, got %.4f <= %.4f", scoreD0, scoreD2)
	}
}

func TestBM25Score_ConjunctiveQuery(t *testing.T) {
	idx := newWorkedCorpus()

	scoreD2 := idx.BM25Score(2, []string{"hello", "world"})
	scoreD0 := idx.BM25Score(0, []string{"hello", "world"})

	if !closeEnough(scoreD2, 0.677, 0.005) {
		t.Errorf("BM25Score(D2, hello+world) = %.4f, want ~0.677", scoreD2)
	}
	if !closeEnough(scoreD0, 0.672, 0.005) {
		t.Errorf("BM25Score(D0, hello+world) = %.4f, want ~0.672", scoreD0)
	}
	if scoreD2 <= scoreD0 {
		t.Errorf("expected D2 to outscore D0, got %.4f <= %.4f", scoreD2, scoreD0)
	}
}

func TestSearch_HelloWorldRanking(t *testing.T) {
	idx := newWorkedCorpus()

	results := NewQueryBuilder(idx).Term("hello").And().Term("world").ExecuteWithBM25(5)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].DocID != 2 || results[1].DocID != 0 {
		t.Errorf("ranking = [%d, %d], want [2, 0]", results[0].DocID, results[1].DocID)
	}
}

func TestSearch_PhraseHelloWorld(t *testing.T) {
	idx := newWorkedCorpus()

	results := NewQueryBuilder(idx).Phrase("hello world").ExecuteWithBM25(5)
	docs := map[int]bool{}
	for _, m := range results {
		docs[m.DocID] = true
	}
	if !docs[0] || !docs[2] {
		t.Errorf("expected D0 and D2 to contain the phrase, got %v", results)
	}
	if docs[1] {
		t.Errorf("D1 should not match the phrase 'hello world'")
	}
}

func TestIDF_NonExistentTerm(t *testing.T) {
	idx := newWorkedCorpus()
	if idf := idx.IDF("nonexistent"); idf != 0.0 {
		t.Errorf("IDF(nonexistent) = %f, want 0", idf)
	}
}

func TestBM25Score_NonExistentDocument(t *testing.T) {
	idx := newWorkedCorpus()
	if score := idx.BM25Score(999, []string{"hello"}); score != 0.0 {
		t.Errorf("BM25Score(missing doc) = %f, want 0", score)
	}
}

func TestDefaultBM25Parameters(t *testing.T) {
	params := DefaultBM25Parameters()
	if params.K1 != 1.2 || params.B != 0.75 {
		t.Errorf("DefaultBM25Parameters() = %+v, want {K1:1.2 B:0.75}", params)
	}
}
