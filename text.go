package fastv7

import "encoding/hex"

const (
	// TextLen is the length of the canonical hyphenated form.
	TextLen = 36
	// HexLen is the length of the form without hyphens.
	HexLen = 32
)

// Text holds the canonical text form of an ID in a fixed-size array, so
// formatting does not allocate. A Text is a plain value: it lives wherever
// the caller keeps it and is copied on assignment.
type Text [TextLen]byte

// FormatText renders u as xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx in
// lowercase hex.
func FormatText(u ID) Text {
	var buf Text
	hex.Encode(buf[0:8], u[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], u[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], u[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], u[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], u[10:16])
	return buf
}

// String copies the text to the heap.
func (t Text) String() string {
	return string(t[:])
}

// Bytes returns a slice over the array; it is only valid while t is.
func (t *Text) Bytes() []byte {
	return t[:]
}

// Hex holds the 32-character form of an ID without hyphens.
type Hex [HexLen]byte

// FormatHex renders u as 32 lowercase hex characters.
func FormatHex(u ID) Hex {
	var buf Hex
	hex.Encode(buf[:], u[:])
	return buf
}

// String copies the text to the heap.
func (h Hex) String() string {
	return string(h[:])
}

// Bytes returns a slice over the array; it is only valid while h is.
func (h *Hex) Bytes() []byte {
	return h[:]
}
