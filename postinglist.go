package daat

// ═══════════════════════════════════════════════════════════════════════════════
// POSTING LIST: Compressed Skip-Block Storage and Iterator Protocol
// ═══════════════════════════════════════════════════════════════════════════════
// A PostingList is the compressed, query-time view of everything the skip
// list for one term has accumulated at ingest time. It groups postings into
// fixed-size blocks (PostingBlockSize each) the way the original engine's
// posting format does, so a query processor can discard a whole block
// without touching its payload once the block's header shows its last doc
// id falls short of a skip target.
//
// Each block stores four parallel streams instead of one array of structs:
// doc-id deltas, term frequencies, offset pairs, and positions. Doc-id
// deltas are packed with LittlePackedInts when a block is full (exactly
// PostingBlockSize postings); a trailing partial block falls back to
// zigzag-varint, since its delta count isn't known until ingest finishes and
// a fixed-width pack isn't worth it for the remainder. Term frequencies are
// raw varints. Offset pairs are varint-encoded against a running byte
// cursor per posting. Positions are gap-varint (delta from the previous
// position within the same posting).
// ═══════════════════════════════════════════════════════════════════════════════

// OffsetPair marks the byte span [Start, End) in the original document text
// that produced one term occurrence. Only ingestion paths that receive
// pre-computed offsets (the line-doc "with-offsets" loader) populate these;
// the self-tokenizing AddDocument path has no trustworthy byte offsets once
// stemming has altered the token, so its postings carry none.
type OffsetPair struct {
	Start int
	End   int
}

// PostingBlockSize is the number of postings grouped into one skip block.
const PostingBlockSize = 128

type postingBlockHeader struct {
	firstDocID    int // absolute doc id of this block's first posting
	firstDelta    int // firstDocID minus the previous block's last doc id
	lastDocID     int // absolute doc id of this block's last posting
	count         int // number of postings in this block
	payloadOffset int // byte offset where the per-posting payload begins, within this block's own [docIDs][payload] layout
}

type decodedPosting struct {
	docID     int
	termFreq  int
	offsets   []OffsetPair
	positions []int
}

type postingBlock struct {
	header postingBlockHeader

	docIDs    []byte // packed (full block) or zigzag-varint (partial block) deltas
	packed    bool
	termFreqs []byte // varint term frequencies, one per posting
	offsets   []byte // varint-encoded offset-pair streams, one group per posting
	positions []byte // gap-varint position streams, one group per posting

	decoded   []decodedPosting
	decodeErr error
}

// decode lazily unpacks a block's byte streams into per-posting structs,
// caching the result since a block is typically visited by SkipForward more
// than once per query.
func (b *postingBlock) decode() ([]decodedPosting, error) {
	if b.decoded != nil || b.decodeErr != nil {
		return b.decoded, b.decodeErr
	}

	n := b.header.count
	docIDs := make([]int, n)
	docIDs[0] = b.header.firstDocID

	if b.packed {
		deltas, err := UnpackLittleInts(b.docIDs, n)
		if err != nil {
			b.decodeErr = err
			return nil, err
		}
		for i := 1; i < n; i++ {
			docIDs[i] = docIDs[i-1] + int(deltas[i])
		}
	} else {
		r := NewVarIntReader(b.docIDs)
		for i := 0; i < n; i++ {
			v, err := r.Next()
			if err != nil {
				b.decodeErr = err
				return nil, err
			}
			if i > 0 {
				docIDs[i] = docIDs[i-1] + int(zigzagDecode(v))
			}
		}
	}

	tfReader := NewVarIntReader(b.termFreqs)
	offReader := NewVarIntReader(b.offsets)
	posReader := NewVarIntReader(b.positions)

	out := make([]decodedPosting, n)
	for i := 0; i < n; i++ {
		tf, err := tfReader.Next()
		if err != nil {
			b.decodeErr = err
			return nil, err
		}

		numPairs, err := offReader.Next()
		if err != nil {
			b.decodeErr = err
			return nil, err
		}
		var pairs []OffsetPair
		if numPairs > 0 {
			pairs = make([]OffsetPair, numPairs)
		}
		cursor := 0
		for j := 0; j < int(numPairs); j++ {
			deltaZ, err := offReader.Next()
			if err != nil {
				b.decodeErr = err
				return nil, err
			}
			length, err := offReader.Next()
			if err != nil {
				b.decodeErr = err
				return nil, err
			}
			start := cursor + int(zigzagDecode(deltaZ))
			pairs[j] = OffsetPair{Start: start, End: start + int(length)}
			cursor = pairs[j].End
		}

		numPos, err := posReader.Next()
		if err != nil {
			b.decodeErr = err
			return nil, err
		}
		var positions []int
		if numPos > 0 {
			positions = make([]int, numPos)
		}
		prev := 0
		for j := 0; j < int(numPos); j++ {
			gap, err := posReader.Next()
			if err != nil {
				b.decodeErr = err
				return nil, err
			}
			prev += int(gap)
			positions[j] = prev
		}

		out[i] = decodedPosting{docID: docIDs[i], termFreq: int(tf), offsets: pairs, positions: positions}
	}

	b.decoded = out
	return out, nil
}

// stagingPosting is the flat, per-document accumulation consumed by
// encodePostingBlock before it is sliced into fixed-size blocks.
type stagingPosting struct {
	docID     int
	positions []int
	offsets   []OffsetPair
}

func encodePostingBlock(chunk []stagingPosting, prevLastDocID int) *postingBlock {
	n := len(chunk)
	deltas := make([]uint32, n)
	prev := prevLastDocID
	for i, p := range chunk {
		deltas[i] = uint32(p.docID - prev)
		prev = p.docID
	}

	packed := n == PostingBlockSize
	var docIDBytes []byte
	if packed {
		docIDBytes = PackLittleInts(deltas)
	} else {
		vb := NewVarIntBuffer()
		for _, d := range deltas {
			vb.Append(zigzagEncode(int64(d)))
		}
		docIDBytes = vb.Bytes()
	}

	tfBuf := NewVarIntBuffer()
	offBuf := NewVarIntBuffer()
	posBuf := NewVarIntBuffer()
	for _, p := range chunk {
		tfBuf.Append(uint64(len(p.positions)))

		offBuf.Append(uint64(len(p.offsets)))
		cursor := 0
		for _, pr := range p.offsets {
			offBuf.Append(zigzagEncode(int64(pr.Start - cursor)))
			offBuf.Append(uint64(pr.End - pr.Start))
			cursor = pr.End
		}

		posBuf.Append(uint64(len(p.positions)))
		prevPos := 0
		for _, pos := range p.positions {
			posBuf.Append(uint64(pos - prevPos))
			prevPos = pos
		}
	}

	return &postingBlock{
		header: postingBlockHeader{
			firstDocID:    chunk[0].docID,
			firstDelta:    chunk[0].docID - prevLastDocID,
			lastDocID:     chunk[n-1].docID,
			count:         n,
			payloadOffset: len(docIDBytes),
		},
		docIDs:    docIDBytes,
		packed:    packed,
		termFreqs: tfBuf.Bytes(),
		offsets:   offBuf.Bytes(),
		positions: posBuf.Bytes(),
	}
}

// PostingList is the compressed, block-organized posting list for one term.
type PostingList struct {
	term   string
	blocks []*postingBlock
}

// buildPostingList compiles every staging posting for term into fixed-size
// skip blocks, in ascending doc-id order.
func buildPostingList(term string, postings []stagingPosting) *PostingList {
	pl := &PostingList{term: term}
	prevLastDocID := 0
	for i := 0; i < len(postings); i += PostingBlockSize {
		end := i + PostingBlockSize
		if end > len(postings) {
			end = len(postings)
		}
		block := encodePostingBlock(postings[i:end], prevLastDocID)
		pl.blocks = append(pl.blocks, block)
		prevLastDocID = block.header.lastDocID
	}
	return pl
}

// Iterator returns a fresh iterator positioned at pl's first posting.
func (pl *PostingList) Iterator() *PostingListIterator {
	it := &PostingListIterator{list: pl}
	it.loadBlock(0)
	return it
}

// Size returns the total number of postings across all of pl's blocks.
func (pl *PostingList) Size() int {
	n := 0
	for _, b := range pl.blocks {
		n += b.header.count
	}
	return n
}

// PostingListIterator walks a PostingList's postings in ascending doc-id
// order, implementing the skip-forward iterator protocol query processors
// are written against: Size/Term/IsEnd/DocId/Advance/SkipForward/TermFreq/
// OffsetPairsBegin/AssignPositionBegin.
type PostingListIterator struct {
	list      *PostingList
	blockIdx  int
	withinIdx int
	cur       []decodedPosting
	end       bool
	err       error
}

func (it *PostingListIterator) loadBlock(i int) {
	if it.list == nil || i >= len(it.list.blocks) {
		it.end = true
		it.cur = nil
		return
	}
	decoded, err := it.list.blocks[i].decode()
	if err != nil {
		it.err = err
		it.end = true
		return
	}
	it.blockIdx = i
	it.withinIdx = 0
	it.cur = decoded
	it.end = len(decoded) == 0
}

// Size returns the total number of postings in the list this iterator walks.
func (it *PostingListIterator) Size() int {
	if it.list == nil {
		return 0
	}
	return it.list.Size()
}

// Term returns the term this iterator's posting list belongs to.
func (it *PostingListIterator) Term() string {
	if it.list == nil {
		return ""
	}
	return it.list.term
}

// Err returns the first corruption error encountered while decoding a
// block, if any.
func (it *PostingListIterator) Err() error {
	return it.err
}

// IsEnd reports whether the iterator has exhausted every posting.
func (it *PostingListIterator) IsEnd() bool {
	return it.end
}

// DocId returns the current posting's document id, or -1 at end.
func (it *PostingListIterator) DocId() int {
	if it.end || it.withinIdx >= len(it.cur) {
		return -1
	}
	return it.cur[it.withinIdx].docID
}

// TermFreq returns the current posting's term frequency.
func (it *PostingListIterator) TermFreq() int {
	if it.end || it.withinIdx >= len(it.cur) {
		return 0
	}
	return it.cur[it.withinIdx].termFreq
}

// Advance moves to the next posting, crossing into the next block when the
// current one is exhausted.
func (it *PostingListIterator) Advance() {
	if it.end {
		return
	}
	it.withinIdx++
	if it.withinIdx >= len(it.cur) {
		it.loadBlock(it.blockIdx + 1)
	}
}

// SkipForward advances until either IsEnd() or DocId() >= target, using
// block headers to skip whole blocks whose last doc id falls short of
// target without decoding them.
func (it *PostingListIterator) SkipForward(target int) {
	for !it.end {
		if it.list.blocks[it.blockIdx].header.lastDocID < target {
			it.loadBlock(it.blockIdx + 1)
			continue
		}
		for it.withinIdx < len(it.cur) && it.cur[it.withinIdx].docID < target {
			it.withinIdx++
		}
		if it.withinIdx >= len(it.cur) {
			it.loadBlock(it.blockIdx + 1)
			continue
		}
		return
	}
}

// OffsetPairsBegin returns a lazy, finite iterator over the current
// posting's offset pairs.
func (it *PostingListIterator) OffsetPairsBegin() *OffsetPairIterator {
	if it.end || it.withinIdx >= len(it.cur) {
		return &OffsetPairIterator{}
	}
	return &OffsetPairIterator{pairs: it.cur[it.withinIdx].offsets}
}

// AssignPositionBegin populates out with the current posting's position
// stream, so a caller can reuse one externally-allocated position iterator
// across many postings instead of allocating one per call.
func (it *PostingListIterator) AssignPositionBegin(out *PostingPositionIterator) {
	if it.end || it.withinIdx >= len(it.cur) {
		*out = PostingPositionIterator{}
		return
	}
	*out = PostingPositionIterator{positions: it.cur[it.withinIdx].positions}
}

// OffsetPairIterator walks one posting's offset-pair stream.
type OffsetPairIterator struct {
	pairs []OffsetPair
	idx   int
}

// HasNext reports whether another offset pair remains.
func (o *OffsetPairIterator) HasNext() bool {
	return o.idx < len(o.pairs)
}

// Next returns the next offset pair and advances.
func (o *OffsetPairIterator) Next() OffsetPair {
	p := o.pairs[o.idx]
	o.idx++
	return p
}

// At returns the offset pair at the given term-appearance index without
// disturbing the iterator's own cursor, the access pattern the phrase
// highlighter uses to pick out only the occurrences a phrase match covers.
func (o *OffsetPairIterator) At(i int) OffsetPair {
	if i < 0 || i >= len(o.pairs) {
		return OffsetPair{}
	}
	return o.pairs[i]
}

// Len returns the number of offset pairs recorded for this posting.
func (o *OffsetPairIterator) Len() int {
	return len(o.pairs)
}

// PostingPositionIterator walks one posting's position stream.
type PostingPositionIterator struct {
	positions []int
	idx       int
}

// IsEnd reports whether every position has been visited.
func (p *PostingPositionIterator) IsEnd() bool {
	return p.idx >= len(p.positions)
}

// Position returns the current position.
func (p *PostingPositionIterator) Position() int {
	return p.positions[p.idx]
}

// Advance moves to the next position.
func (p *PostingPositionIterator) Advance() {
	p.idx++
}
