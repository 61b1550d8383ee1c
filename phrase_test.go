package daat

import "testing"

func TestNextPhrase_SingleTerm(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox")

	match := idx.NextPhrase("fox", BOFDocument)
	if match[0].IsEnd() {
		t.Fatal("expected a match, got EOF")
	}
	if match[0].GetDocumentID() != 1 {
		t.Errorf("DocID = %d, want 1", match[0].GetDocumentID())
	}
}

func TestNextPhrase_ConsecutiveTerms(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox")

	match := idx.NextPhrase("quick brown", BOFDocument)
	if match[0].IsEnd() {
		t.Fatal("expected a match for adjacent terms")
	}
	if match[0].GetDocumentID() != 1 {
		t.Errorf("DocID = %d, want 1", match[0].GetDocumentID())
	}
}

func TestNextPhrase_NonConsecutiveTermsDoNotMatch(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick little brown fox")

	match := idx.NextPhrase("quick brown", BOFDocument)
	if !match[0].IsEnd() {
		t.Errorf("expected no match for non-adjacent terms, got %v", match)
	}
}

func TestNextPhrase_NoOccurrence(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox")

	match := idx.NextPhrase("elephant", BOFDocument)
	if !match[0].IsEnd() {
		t.Errorf("expected EOF for absent term, got %v", match)
	}
}

func TestFindAllPhrases_MultipleDocuments(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "the quick brown fox")
	idx.AddDocument(2, "brown the quick fox")
	idx.AddDocument(3, "another quick brown animal")

	matches := idx.FindAllPhrases("quick brown")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func TestFindAllPhrases_MultipleOccurrencesInOneDocument(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox and quick brown dog")

	matches := idx.FindAllPhrases("quick brown")
	if len(matches) != 2 {
		t.Fatalf("got %d matches in one document, want 2", len(matches))
	}
	for _, m := range matches {
		if m[0].GetDocumentID() != 1 {
			t.Errorf("match docID = %d, want 1", m[0].GetDocumentID())
		}
	}
}

func TestPhraseDocuments_FirstMatchPerDocument(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick brown fox and quick brown dog")
	idx.AddDocument(2, "no match here")

	docs := idx.PhraseDocuments("quick brown")
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if _, ok := docs[1]; !ok {
		t.Errorf("expected document 1 in results, got %v", docs)
	}
}

func TestIsValidPhrase_RejectsCrossDocument(t *testing.T) {
	idx := NewInvertedIndex()
	idx.AddDocument(1, "quick")
	idx.AddDocument(2, "brown")

	match := idx.NextPhrase("quick brown", BOFDocument)
	if !match[0].IsEnd() {
		t.Errorf("expected no cross-document phrase match, got %v", match)
	}
}
