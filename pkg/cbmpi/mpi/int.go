package mpi

import (
	"math/bits"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
)

const (
	// DigitBits is the width of one digit.
	DigitBits = 16
	// DigitHex is the number of hex characters one digit renders as.
	DigitHex = DigitBits / 4

	digitMask = 1<<DigitBits - 1
	hexDigits = "0123456789abcdef"
)

// Int is an unsigned integer of arbitrary size.
//
// The value is stored as base 2^16 digits, least significant first:
// 0x1_0002_0003 is held as [0x0003, 0x0002, 0x0001]. The slice never has a
// zero most-significant digit, and zero is the empty slice, so the zero value
// of Int is the number 0.
//
// Int has value semantics. No method mutates its receiver or arguments except
// Wipe, so copies may share storage.
type Int struct {
	d []uint16
}

func norm(d []uint16) []uint16 {
	i := len(d)
	for i > 0 && d[i-1] == 0 {
		i--
	}
	return d[:i]
}

// FromUint64 returns v as an Int.
func FromUint64(v uint64) Int {
	var d []uint16
	for ; v > 0; v >>= DigitBits {
		d = append(d, uint16(v&digitMask))
	}
	return Int{d: d}
}

// FromBytes interprets buf as a big-endian unsigned integer.
func FromBytes(buf []byte) Int {
	d := make([]uint16, 0, (len(buf)+1)/2)
	for i := len(buf) - 1; i >= 0; i -= 2 {
		if i == 0 {
			d = append(d, uint16(buf[0]))
			break
		}
		d = append(d, uint16(buf[i-1])<<8|uint16(buf[i]))
	}
	return Int{d: norm(d)}
}

// Bytes returns the minimal big-endian encoding of x. Zero encodes as an
// empty slice.
func (x Int) Bytes() []byte {
	buf := make([]byte, 2*len(x.d))
	for i, w := range x.d {
		j := len(buf) - 2*i
		buf[j-1] = byte(w)
		buf[j-2] = byte(w >> 8)
	}
	i := 0
	for i < len(buf) && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

// Uint64 returns x as a uint64. ok is false when x does not fit.
func (x Int) Uint64() (v uint64, ok bool) {
	if len(x.d) > 64/DigitBits {
		return 0, false
	}
	for i := len(x.d) - 1; i >= 0; i-- {
		v = v<<DigitBits | uint64(x.d[i])
	}
	return v, true
}

// Digits returns the number of base 2^16 digits of x. Zero has none.
func (x Int) Digits() int {
	return len(x.d)
}

// IsZero reports whether x == 0.
func (x Int) IsZero() bool {
	return len(x.d) == 0
}

// IsOdd reports whether x is odd.
func (x Int) IsOdd() bool {
	return len(x.d) > 0 && x.d[0]&1 == 1
}

// BitLen returns the number of significant bits of x. BitLen of zero is 0.
func (x Int) BitLen() int {
	if len(x.d) == 0 {
		return 0
	}
	top := len(x.d) - 1
	return top*DigitBits + bits.Len16(x.d[top])
}

// Bit returns bit i of x, counting from the least significant bit.
func (x Int) Bit(i int) uint {
	if i < 0 {
		return 0
	}
	k := i / DigitBits
	if k >= len(x.d) {
		return 0
	}
	return uint(x.d[k]>>(uint(i)%DigitBits)) & 1
}

// TrailingZeroBits returns the number of consecutive zero low bits of x.
// It returns 0 for x == 0.
func (x Int) TrailingZeroBits() int {
	for i, w := range x.d {
		if w != 0 {
			return i*DigitBits + bits.TrailingZeros16(w)
		}
	}
	return 0
}

// String renders x as fixed-width hex: four lower-case characters per digit,
// most significant digit first. Zero renders as "0000".
func (x Int) String() string {
	if len(x.d) == 0 {
		return "0000"
	}
	buf := make([]byte, 0, DigitHex*len(x.d))
	for i := len(x.d) - 1; i >= 0; i-- {
		w := x.d[i]
		buf = append(buf,
			hexDigits[w>>12&0xf],
			hexDigits[w>>8&0xf],
			hexDigits[w>>4&0xf],
			hexDigits[w&0xf])
	}
	return string(buf)
}

// Parse reads hex text of any non-zero length, upper or lower case. Leading
// zeros are accepted and dropped, so Parse(x.String()) equals x.
func Parse(s string) (Int, error) {
	const op = "mpi.Parse"
	if len(s) == 0 {
		return Int{}, cbmpi.Errorf(cbmpi.KindParse, op, "empty input")
	}
	d := make([]uint16, (len(s)+DigitHex-1)/DigitHex)
	for i := 0; i < len(s); i++ {
		v, ok := hexValue(s[i])
		if !ok {
			return Int{}, cbmpi.Errorf(cbmpi.KindParse, op, "invalid hex character %q at offset %d", s[i], i)
		}
		// position counted from the least significant character
		pos := len(s) - 1 - i
		d[pos/DigitHex] |= uint16(v) << (4 * uint(pos%DigitHex))
	}
	return Int{d: norm(d)}, nil
}

// MustParse is Parse for constants; it panics on malformed input.
func MustParse(s string) Int {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler using the String form.
func (x Int) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (x *Int) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// Clone returns a copy of x that shares no storage with it.
func (x Int) Clone() Int {
	if len(x.d) == 0 {
		return Int{}
	}
	return Int{d: append([]uint16(nil), x.d...)}
}

// Wipe zeroes the digits of x and resets it to zero. Other copies of x that
// share its storage are left holding zeroed, unnormalized digits and must not
// be used afterwards.
func (x *Int) Wipe() {
	cbmpi.ZeroizeDigits(x.d)
	x.d = nil
}
