package daat

import "fmt"

// ═══════════════════════════════════════════════════════════════════════════════
// VARINT CODEC
// ═══════════════════════════════════════════════════════════════════════════════
// A variable-length integer encoding: each byte carries 7 bits of payload
// plus a continuation bit in its most significant bit. A byte with the
// continuation bit set means "more bytes follow"; a byte without it is the
// last byte of the value. Small values therefore cost one byte, and the
// encoding never needs a length prefix.
//
// This mirrors the VarintBuffer format from the C++ system this package's
// posting-list compression is modeled on: Append/Prepend grow a single
// byte buffer, and decoding walks it back out value by value.
// ═══════════════════════════════════════════════════════════════════════════════

// PutUvarint appends the VarInt encoding of v to buf and returns the
// extended slice.
func PutUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// Uvarint decodes a VarInt value from the start of buf, returning the value
// and the number of bytes consumed. It returns (0, 0) if buf does not hold
// a complete value.
func Uvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, b := range buf {
		if b < 0x80 {
			if i == 9 && b > 1 {
				return 0, -(i + 1) // overflows a 64-bit value
			}
			return v | uint64(b)<<shift, i + 1
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}
	return 0, 0
}

// VarIntBuffer is an append-only byte buffer of VarInt-encoded values,
// grounded in the original system's VarintBuffer class: Append adds a
// value to the end, Prepend inserts one at the front (used when a block's
// final length has to be written before its body), and Bytes exposes the
// accumulated encoding.
type VarIntBuffer struct {
	data []byte
}

// NewVarIntBuffer returns an empty VarIntBuffer.
func NewVarIntBuffer() *VarIntBuffer {
	return &VarIntBuffer{}
}

// Append encodes v and adds it to the end of the buffer.
func (b *VarIntBuffer) Append(v uint64) {
	b.data = PutUvarint(b.data, v)
}

// Prepend encodes v and inserts it at the front of the buffer.
func (b *VarIntBuffer) Prepend(v uint64) {
	head := PutUvarint(nil, v)
	b.data = append(head, b.data...)
}

// Len returns the number of bytes currently buffered.
func (b *VarIntBuffer) Len() int {
	return len(b.data)
}

// Bytes returns the buffered encoding. The returned slice aliases the
// buffer's internal storage.
func (b *VarIntBuffer) Bytes() []byte {
	return b.data
}

// VarIntReader walks a VarInt-encoded byte slice value by value.
type VarIntReader struct {
	data []byte
	pos  int
}

// NewVarIntReader returns a reader over data.
func NewVarIntReader(data []byte) *VarIntReader {
	return &VarIntReader{data: data}
}

// Done reports whether every byte has been consumed.
func (r *VarIntReader) Done() bool {
	return r.pos >= len(r.data)
}

// Next decodes and returns the next value, advancing the cursor.
func (r *VarIntReader) Next() (uint64, error) {
	v, n := Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("decoding varint at byte %d: %w", r.pos, ErrCorruptStream)
	}
	r.pos += n
	return v, nil
}

// zigzagEncode maps a signed delta to an unsigned value so that small
// magnitudes (positive or negative) stay small after VarInt encoding. Used
// by postinglist.go's encodePostingBlock/decode for a partial block's
// doc-id deltas and every offset pair's start delta: both are structurally
// non-negative in this append-only index, but zigzag keeps the encoding
// correct even if a future ingestion path ever produces an out-of-order
// delta, rather than assuming the sign away.
func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// zigzagDecode reverses zigzagEncode.
func zigzagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
