package mpi

import "github.com/coinbase/cb-mpi-go/pkg/cbmpi"

// cmpDigits compares two normalized digit slices.
func cmpDigits(x, y []uint16) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to or
// greater than y.
func (x Int) Cmp(y Int) int {
	return cmpDigits(x.d, y.d)
}

// Equal reports whether x == y.
func (x Int) Equal(y Int) bool {
	return cmpDigits(x.d, y.d) == 0
}

// Add returns x + y.
func (x Int) Add(y Int) Int {
	a, b := x.d, y.d
	if len(a) < len(b) {
		a, b = b, a
	}
	z := make([]uint16, len(a)+1)
	var carry uint32
	for i := range a {
		s := uint32(a[i]) + carry
		if i < len(b) {
			s += uint32(b[i])
		}
		z[i] = uint16(s)
		carry = s >> DigitBits
	}
	z[len(a)] = uint16(carry)
	return Int{d: norm(z)}
}

// subDigits returns x - y for x >= y.
func subDigits(x, y []uint16) []uint16 {
	z := make([]uint16, len(x))
	var borrow uint32
	for i := range x {
		yi := borrow
		if i < len(y) {
			yi += uint32(y[i])
		}
		xi := uint32(x[i])
		if xi >= yi {
			z[i] = uint16(xi - yi)
			borrow = 0
		} else {
			z[i] = uint16(xi + 1<<DigitBits - yi)
			borrow = 1
		}
	}
	return norm(z)
}

// Sub returns x - y. The result is never wrapped: when y > x it returns an
// arithmetic error with reason ReasonUnderflow.
func (x Int) Sub(y Int) (Int, error) {
	if cmpDigits(x.d, y.d) < 0 {
		return Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonUnderflow, "mpi.Sub",
			"subtrahend has %d bits, minuend %d", y.BitLen(), x.BitLen())
	}
	return Int{d: subDigits(x.d, y.d)}, nil
}

// MustSub is Sub for operands already known to satisfy x >= y. It panics
// otherwise.
func (x Int) MustSub(y Int) Int {
	z, err := x.Sub(y)
	if err != nil {
		panic(err)
	}
	return z
}

// Mul returns x * y using schoolbook multiplication.
func (x Int) Mul(y Int) Int {
	if len(x.d) == 0 || len(y.d) == 0 {
		return Int{}
	}
	z := make([]uint16, len(x.d)+len(y.d))
	for i, xi := range x.d {
		if xi == 0 {
			continue
		}
		var carry uint32
		for j, yj := range y.d {
			// (2^16-1)^2 + 2*(2^16-1) == 2^32-1, so t cannot overflow.
			t := uint32(xi)*uint32(yj) + uint32(z[i+j]) + carry
			z[i+j] = uint16(t)
			carry = t >> DigitBits
		}
		z[i+len(y.d)] = uint16(carry)
	}
	return Int{d: norm(z)}
}

// Lsh returns x << n.
func (x Int) Lsh(n uint) Int {
	if len(x.d) == 0 {
		return Int{}
	}
	words := int(n / DigitBits)
	s := n % DigitBits
	z := make([]uint16, len(x.d)+words+1)
	var carry uint16
	for i, w := range x.d {
		z[i+words] = w<<s | carry
		carry = w >> (DigitBits - s)
	}
	z[len(x.d)+words] = carry
	return Int{d: norm(z)}
}

// Rsh returns x >> n.
func (x Int) Rsh(n uint) Int {
	words := int(n / DigitBits)
	if words >= len(x.d) {
		return Int{}
	}
	s := n % DigitBits
	src := x.d[words:]
	z := make([]uint16, len(src))
	for i := range src {
		w := src[i] >> s
		if i+1 < len(src) {
			w |= src[i+1] << (DigitBits - s)
		}
		z[i] = w
	}
	return Int{d: norm(z)}
}
