package boardfile

import (
	"bytes"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

// MaxBufferSize is the largest input a dialect will accept
const MaxBufferSize = 256 << 20

// signature is the 4-byte header of obfuscated legacy files
var signature = []byte{0x23, 0xe2, 0x63, 0x28}

// Dialect names stored in Board.Dialect
const (
	DialectBRD   = "brd"
	DialectBRD2  = "brd2"
	DialectKiCad = "kicad"
)

// Dialect is one board file format
type Dialect interface {
	// Name is the short identifier stored in Board.Dialect
	Name() string
	// Verify checks the format's markers without parsing
	Verify(buf []byte) bool
	// Parse decodes buf into a board, or fails without a board
	Parse(buf []byte) (*board.Board, error)
}

// CheckSize rejects buffers that are too small to hold a board or too
// large to be held in memory.
func CheckSize(buf []byte) error {
	if len(buf) <= 4 {
		return Errorf(BufferTooSmall, "%d bytes", len(buf))
	}
	if len(buf) > MaxBufferSize {
		return Errorf(AllocationFailed, "%d bytes exceeds limit of %d", len(buf), MaxBufferSize)
	}
	return nil
}

// HasSignature reports whether buf starts with the obfuscation header
func HasSignature(buf []byte) bool {
	return len(buf) >= len(signature) && bytes.Equal(buf[:len(signature)], signature)
}

// Decode returns a de-obfuscated copy of buf. Every byte other than
// '\r', '\n' and 0 becomes ~(((x>>6)&3)|(x<<2)). buf is not modified.
func Decode(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, x := range buf {
		if x == '\r' || x == '\n' || x == 0 {
			out[i] = x
			continue
		}
		out[i] = ^((x>>6)&3 | x<<2)
	}
	return out
}

// ContainsAll reports whether every marker occurs somewhere in buf
func ContainsAll(buf []byte, markers ...string) bool {
	for _, m := range markers {
		if !bytes.Contains(buf, []byte(m)) {
			return false
		}
	}
	return true
}

// Encode is the inverse of Decode
func Encode(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, y := range buf {
		if y == '\r' || y == '\n' || y == 0 {
			out[i] = y
			continue
		}
		x := ^y
		out[i] = x>>2 | x<<6
	}
	return out
}
