package daat

import "strings"

// ═══════════════════════════════════════════════════════════════════════════════
// PHRASE VERIFICATION
// ═══════════════════════════════════════════════════════════════════════════════
// A phrase match requires the query's terms to occur in the same document
// at strictly consecutive positions. The anchor here is the phrase's last
// term: NextPhrase finds the next place every term occurs (in order, not
// necessarily consecutively), then walks backward from that anchor to see
// whether the earlier terms landed on the immediately preceding positions.
// If they didn't, the walk restarts from the failed start position - this
// is the Go equivalent of the original system's FindMaxAdjustedLastPopped /
// MovePoppedBeyond / IsPoppedMatch loop, expressed over this package's
// position-ordered skip list instead of a columnar position table.
// ═══════════════════════════════════════════════════════════════════════════════

// NextPhrase finds the next occurrence of a phrase (space-separated terms)
// strictly after startPos, returning [start, end] positions of the match, or
// [EOF, EOF] if no further occurrence exists.
func (idx *InvertedIndex) NextPhrase(query string, startPos Position) []Position {
	terms := strings.Fields(query)
	return idx.nextPhraseTerms(terms, startPos)
}

func (idx *InvertedIndex) nextPhraseTerms(terms []string, startPos Position) []Position {
	if len(terms) == 1 {
		next, _ := idx.Next(terms[0], startPos)
		if next.IsEnd() {
			return []Position{EOFDocument, EOFDocument}
		}
		return []Position{next, next}
	}

	endPos := idx.findPhraseEnd(terms, startPos)
	if endPos.IsEnd() {
		return []Position{EOFDocument, EOFDocument}
	}

	phraseStart := idx.findPhraseStart(terms, endPos)

	if idx.isValidPhrase(phraseStart, endPos, len(terms)) {
		return []Position{phraseStart, endPos}
	}

	return idx.nextPhraseTerms(terms, phraseStart)
}

// findPhraseEnd hops forward through each term in order, returning the
// position of the last term, or EOF if any term has no further occurrence.
func (idx *InvertedIndex) findPhraseEnd(terms []string, startPos Position) Position {
	currentPos := startPos
	for _, term := range terms {
		currentPos, _ = idx.Next(term, currentPos)
		if currentPos.IsEnd() {
			return EOFDocument
		}
	}
	return currentPos
}

// findPhraseStart walks backward through every term but the last,
// returning the position where the phrase's first term would need to sit.
func (idx *InvertedIndex) findPhraseStart(terms []string, endPos Position) Position {
	currentPos := endPos
	for i := len(terms) - 2; i >= 0; i-- {
		currentPos, _ = idx.Previous(terms[i], currentPos)
	}
	return currentPos
}

// isValidPhrase reports whether start and end land in the same document at
// exactly the distance a contiguous termCount-word phrase requires.
func (idx *InvertedIndex) isValidPhrase(start, end Position, termCount int) bool {
	expectedDistance := termCount - 1
	actualDistance := end.GetOffset() - start.GetOffset()
	return start.DocumentID == end.DocumentID && actualDistance == expectedDistance
}

// FindAllPhrases returns every occurrence of query in the index, each as a
// [start, end] position pair, in document/position order.
func (idx *InvertedIndex) FindAllPhrases(query string) [][]Position {
	terms := strings.Fields(query)
	var allMatches [][]Position
	currentPos := BOFDocument

	for !currentPos.IsEnd() {
		match := idx.nextPhraseTerms(terms, currentPos)
		phraseStart := match[0]
		if phraseStart.IsEnd() {
			break
		}
		allMatches = append(allMatches, match)
		currentPos = match[1]
	}

	return allMatches
}

// PhraseDocuments reduces FindAllPhrases to the set of documents containing
// at least one occurrence of the phrase, each mapped to its first match.
func (idx *InvertedIndex) PhraseDocuments(query string) map[int][]Position {
	matches := idx.FindAllPhrases(query)
	docs := make(map[int][]Position)
	for _, m := range matches {
		docID := m[0].GetDocumentID()
		if _, seen := docs[docID]; !seen {
			docs[docID] = m
		}
	}
	return docs
}

// ═══════════════════════════════════════════════════════════════════════════════
// PHRASE VERIFIER: Columnar Position Table over Posting-List Iterators
// ═══════════════════════════════════════════════════════════════════════════════
// The DAAT query processors run phrase verification directly over each
// term's posting-list position stream, not the skip list: once a candidate
// document has been found by the doc-id iterators, a PostingPositionIterator
// per term walks that document's positions looking for every anchor a where
// term i sits at a+i for every i. This is the general phrase-verifier
// algorithm the original system calls FindMaxAdjustedLastPopped /
// MovePoppedBeyond / IsPoppedMatch, with an n=2 fast path that degenerates to
// a classic two-pointer merge. The output is a position table: one row per
// term, one column per match, each cell the (position, term_appearance_index)
// pair responsible for that match - exactly what the highlighter needs to
// pick out only the offset pairs a phrase match actually covers.
// ═══════════════════════════════════════════════════════════════════════════════

// PositionColumn is one cell of a phrase verifier's position table: the
// position a term matched at, and that position's 0-based ordinal into the
// term's own posting (its "term appearance index").
type PositionColumn struct {
	Position       int
	TermAppearance int
}

// verifyPhrase runs the phrase-verifier algorithm over one position
// iterator per query term, all already positioned at the same document.
// It returns a position table: table[i] holds every match's column for
// term i, in match order. An empty table (table[0] has zero entries) means
// no phrase match exists in this document.
func verifyPhrase(posIters []*PostingPositionIterator) [][]PositionColumn {
	if len(posIters) == 2 {
		return verifyTwoTermPhrase(posIters)
	}
	return verifyGeneralPhrase(posIters)
}

// verifyTwoTermPhrase is the classic two-pointer merge fast path: term 0's
// position must equal term 1's position minus one.
func verifyTwoTermPhrase(posIters []*PostingPositionIterator) [][]PositionColumn {
	it0, it1 := posIters[0], posIters[1]
	table := make([][]PositionColumn, 2)
	app0, app1 := 0, 0

	for !it0.IsEnd() && !it1.IsEnd() {
		p0 := it0.Position()
		p1 := it1.Position() - 1
		switch {
		case p0 == p1:
			table[0] = append(table[0], PositionColumn{Position: it0.Position(), TermAppearance: app0})
			table[1] = append(table[1], PositionColumn{Position: it1.Position(), TermAppearance: app1})
			it0.Advance()
			app0++
			it1.Advance()
			app1++
		case p0 < p1:
			it0.Advance()
			app0++
		default:
			it1.Advance()
			app1++
		}
	}
	return table
}

// verifyGeneralPhrase handles three or more terms: prime one position per
// iterator, compute the maximum of (position - term index), advance every
// iterator that falls short of that adjusted maximum, and record a match
// once every iterator's adjusted position agrees. Then advance all
// iterators past the match and repeat.
func verifyGeneralPhrase(posIters []*PostingPositionIterator) [][]PositionColumn {
	n := len(posIters)
	table := make([][]PositionColumn, n)
	appearance := make([]int, n)

	for {
		for i := 0; i < n; i++ {
			if posIters[i].IsEnd() {
				return table
			}
		}

		maxAdjusted := posIters[0].Position()
		for i := 1; i < n; i++ {
			if adjusted := posIters[i].Position() - i; adjusted > maxAdjusted {
				maxAdjusted = adjusted
			}
		}

		allAligned := true
		for i := 0; i < n; i++ {
			for !posIters[i].IsEnd() && posIters[i].Position()-i < maxAdjusted {
				posIters[i].Advance()
				appearance[i]++
			}
			if posIters[i].IsEnd() {
				return table
			}
			if posIters[i].Position()-i != maxAdjusted {
				allAligned = false
			}
		}

		if allAligned {
			for i := 0; i < n; i++ {
				table[i] = append(table[i], PositionColumn{Position: posIters[i].Position(), TermAppearance: appearance[i]})
			}
		}

		for i := 0; i < n; i++ {
			for !posIters[i].IsEnd() && posIters[i].Position()-i <= maxAdjusted {
				posIters[i].Advance()
				appearance[i]++
			}
		}
	}
}
