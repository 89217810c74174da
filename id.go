package fastv7

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Layout of a UUID v7 as two big-endian 64-bit halves.
//
//	hi: [48 bits: unix ms | 4 bits: version 0111 | 12 bits: rand_a]
//	lo: [2 bits: variant 10 | 62 bits: rand_b]
//
// Counted identifiers store the 18-bit counter in rand_a (high 12 bits)
// and in the top 6 bits of rand_b, leaving 56 random bits.
const (
	timestampShift = 16
	versionBits    = uint64(0x7) << 12
	variantBits    = uint64(0x2) << 62

	randAMask      = 1<<12 - 1
	randBMask      = 1<<62 - 1
	counterLowBits = 6
	counterLowMask = 1<<counterLowBits - 1
	counterShift   = 56
	fillerMask     = 1<<56 - 1
)

var (
	// ErrInvalidLength is returned when the input is neither a 16-byte
	// binary ID nor a 36 or 32 character text ID.
	ErrInvalidLength = errors.New("fastv7: invalid length")
	// ErrInvalidFormat is returned for misplaced hyphens or non-hex digits.
	ErrInvalidFormat = errors.New("fastv7: invalid format")
	// ErrNotV7 is returned when the version or variant bits are not those
	// of a UUID v7.
	ErrNotV7 = errors.New("fastv7: not a version 7 UUID")
)

// ID is a 128-bit identifier in the UUID version 7 layout, stored
// big-endian so that byte order, numeric order and text order agree.
type ID [16]byte

// Nil is the zero ID.
var Nil ID

// FromHalves builds an ID from its high and low 64-bit halves.
func FromHalves(hi, lo uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], hi)
	binary.BigEndian.PutUint64(id[8:16], lo)
	return id
}

// Halves returns the high and low 64-bit halves of the ID.
func (u ID) Halves() (hi, lo uint64) {
	return binary.BigEndian.Uint64(u[0:8]), binary.BigEndian.Uint64(u[8:16])
}

func encodeCounted(millis uint64, counter uint32, random uint64) ID {
	hi := millis<<timestampShift | versionBits | uint64(counter>>counterLowBits)&randAMask
	lo := variantBits | uint64(counter&counterLowMask)<<counterShift | random&fillerMask
	return FromHalves(hi, lo)
}

func encodeRandom(millis uint64, randA, randB uint64) ID {
	hi := millis<<timestampShift | versionBits | randA&randAMask
	lo := variantBits | randB&randBMask
	return FromHalves(hi, lo)
}

// Millis returns the 48-bit Unix millisecond timestamp.
func (u ID) Millis() uint64 {
	return uint64(u[0])<<40 |
		uint64(u[1])<<32 |
		uint64(u[2])<<24 |
		uint64(u[3])<<16 |
		uint64(u[4])<<8 |
		uint64(u[5])
}

// Time returns the embedded timestamp with millisecond precision.
func (u ID) Time() time.Time {
	return time.UnixMilli(int64(u.Millis()))
}

// Version returns the version nibble (7 for every generated ID).
func (u ID) Version() int {
	return int(u[6] >> 4)
}

// Variant returns the two variant bits (0b10 for every generated ID).
func (u ID) Variant() int {
	return int(u[8] >> 6)
}

// Counter returns the 18-bit sequence counter of an ID produced by
// NextCounted. For other IDs the value is random.
func (u ID) Counter() uint32 {
	high := uint32(u[6]&0x0F)<<8 | uint32(u[7])
	low := uint32(u[8] & 0x3F)
	return high<<counterLowBits | low
}

// IsV7 reports whether the version and variant bits are those of a UUID v7.
func (u ID) IsV7() bool {
	return (u[6]&0xF0) == 0x70 && (u[8]&0xC0) == 0x80
}

// IsZero reports whether u is the Nil ID.
func (u ID) IsZero() bool {
	return u == Nil
}

// Compare returns -1, 0 or +1 comparing u and other as unsigned 128-bit
// integers.
func (u ID) Compare(other ID) int {
	return bytes.Compare(u[:], other[:])
}

// UUID converts the ID to a github.com/google/uuid value.
func (u ID) UUID() uuid.UUID {
	return uuid.UUID(u)
}

// FromUUID converts a github.com/google/uuid value, rejecting anything
// that is not a version 7 RFC 9562 UUID.
func FromUUID(v uuid.UUID) (ID, error) {
	if v.Version() != 7 || v.Variant() != uuid.RFC4122 {
		return Nil, fmt.Errorf("%w: version %d, variant %s", ErrNotV7, v.Version(), v.Variant())
	}
	return ID(v), nil
}

// ULID reinterprets the ID as a ULID. Both formats start with a 48-bit
// big-endian millisecond timestamp, so ULID text sorts the same way.
func (u ID) ULID() ulid.ULID {
	return ulid.ULID(u)
}

// String returns the canonical form xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
// It allocates; use FormatText to keep the text on the stack.
func (u ID) String() string {
	t := FormatText(u)
	return string(t[:])
}

// AppendText appends the canonical text form to dst.
func (u ID) AppendText(dst []byte) ([]byte, error) {
	t := FormatText(u)
	return append(dst, t[:]...), nil
}

// MarshalText implements encoding.TextMarshaler.
func (u ID) MarshalText() ([]byte, error) {
	t := FormatText(u)
	return t[:], nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the
// canonical 36-character form and the 32-character form without hyphens.
func (u *ID) UnmarshalText(text []byte) error {
	var buf [32]byte
	switch len(text) {
	case TextLen:
		if text[8] != '-' || text[13] != '-' || text[18] != '-' || text[23] != '-' {
			return fmt.Errorf("%w: misplaced hyphens", ErrInvalidFormat)
		}
		copy(buf[0:8], text[0:8])
		copy(buf[8:12], text[9:13])
		copy(buf[12:16], text[14:18])
		copy(buf[16:20], text[19:23])
		copy(buf[20:32], text[24:36])
	case HexLen:
		copy(buf[:], text)
	default:
		return fmt.Errorf("%w: want %d or %d characters, got %d", ErrInvalidLength, TextLen, HexLen, len(text))
	}

	var id ID
	if _, err := hex.Decode(id[:], buf[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if !id.IsV7() {
		return ErrNotV7
	}
	*u = id
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler and returns a copy of
// the 16 raw bytes.
func (u ID) MarshalBinary() ([]byte, error) {
	return bytes.Clone(u[:]), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (u *ID) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("%w: want 16 bytes, got %d", ErrInvalidLength, len(data))
	}
	id := ID(data)
	if !id.IsV7() {
		return ErrNotV7
	}
	*u = id
	return nil
}

// Value implements driver.Valuer and stores the ID as canonical text.
func (u ID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Scan implements sql.Scanner. It accepts:
//   - string (text form),
//   - []byte (16-byte binary form or text form),
//   - nil, which yields Nil.
func (u *ID) Scan(src any) error {
	if src == nil {
		*u = Nil
		return nil
	}
	switch s := src.(type) {
	case string:
		return u.UnmarshalText(unsafe.Slice(unsafe.StringData(s), len(s)))
	case []byte:
		if len(s) == 16 {
			return u.UnmarshalBinary(s)
		}
		return u.UnmarshalText(s)
	default:
		return fmt.Errorf("fastv7: cannot scan type %T into ID", src)
	}
}

// Parse decodes an ID from its canonical or unhyphenated hex form.
func Parse(s string) (ID, error) {
	var id ID
	err := id.UnmarshalText(unsafe.Slice(unsafe.StringData(s), len(s)))
	return id, err
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
