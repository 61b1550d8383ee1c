package daat

// ═══════════════════════════════════════════════════════════════════════════════
// PROXIMITY RANKING (supplement: not requested in the distilled spec's
// worked examples, but present in the original system as a ranking mode
// distinct from BM25 - unordered terms scored by how closely they cluster
// rather than by frequency/rarity. Exposed as the separate RankProximity
// method, not as a Search option or a replacement for BM25.)
// ═══════════════════════════════════════════════════════════════════════════════
// A "cover" is the smallest range of positions containing every query term
// at least once, in any order. NextCover finds the next cover: look ahead
// for each term's next occurrence (the furthest one is the cover's end),
// then look backward from there for each term's closest occurrence (the
// earliest one is the cover's start).
// ═══════════════════════════════════════════════════════════════════════════════

// NextCover finds the next cover - a minimal range containing every token
// - strictly after startPos.
func (idx *InvertedIndex) NextCover(tokens []string, startPos Position) []Position {
	coverEnd := idx.findCoverEnd(tokens, startPos)
	if coverEnd.IsEnd() {
		return []Position{EOFDocument, EOFDocument}
	}

	coverStart := idx.findCoverStart(tokens, coverEnd)

	if coverStart.DocumentID == coverEnd.DocumentID {
		return []Position{coverStart, coverEnd}
	}

	return idx.NextCover(tokens, coverStart)
}

func (idx *InvertedIndex) findCoverEnd(tokens []string, startPos Position) Position {
	maxPos := startPos

	for _, token := range tokens {
		tokenPos, _ := idx.Next(token, startPos)
		if tokenPos.IsEnd() {
			return EOFDocument
		}
		if tokenPos.IsAfter(maxPos) {
			maxPos = tokenPos
		}
	}

	return maxPos
}

func (idx *InvertedIndex) findCoverStart(tokens []string, endPos Position) Position {
	minPos := BOFDocument

	searchBound := Position{
		DocumentID: endPos.DocumentID,
		Offset:     endPos.Offset + 1,
	}

	for _, token := range tokens {
		tokenPos, _ := idx.Previous(token, searchBound)
		if minPos.IsBeginning() || tokenPos.IsBefore(minPos) {
			minPos = tokenPos
		}
	}

	return minPos
}

// RankProximity ranks documents by term clustering rather than BM25: each
// cover of the query tokens contributes 1/(span+1) to its document's
// score, and a document's score is the sum over all its covers.
func (idx *InvertedIndex) RankProximity(query string, maxResults int) []Match {
	tokens := Analyze(query)
	if len(tokens) == 0 {
		return []Match{}
	}

	idx.Logger.Info("proximity ranking", "query", query)

	results := idx.collectProximityMatches(tokens)
	sortMatchesByScore(results)
	return limitResults(results, maxResults)
}

func (idx *InvertedIndex) collectProximityMatches(tokens []string) []Match {
	var matches []Match

	coverPositions := idx.NextCover(tokens, BOFDocument)
	coverStart, coverEnd := coverPositions[0], coverPositions[1]

	currentCandidate := []Position{coverStart, coverEnd}
	currentScore := 0.0

	for !coverStart.IsEnd() {
		if currentCandidate[0].DocumentID < coverStart.DocumentID {
			matches = append(matches, Match{
				DocID:   currentCandidate[0].GetDocumentID(),
				Offsets: currentCandidate,
				Score:   currentScore,
			})
			currentCandidate = []Position{coverStart, coverEnd}
			currentScore = 0
		}

		proximity := float64(coverEnd.Offset - coverStart.Offset + 1)
		currentScore += 1 / proximity

		coverPositions = idx.NextCover(tokens, coverStart)
		coverStart, coverEnd = coverPositions[0], coverPositions[1]
	}

	if !currentCandidate[0].IsEnd() {
		matches = append(matches, Match{
			DocID:   currentCandidate[0].GetDocumentID(),
			Offsets: currentCandidate,
			Score:   currentScore,
		})
	}

	return matches
}
