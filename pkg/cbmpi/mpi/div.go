package mpi

import (
	"math/bits"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
)

// DivMod returns the quotient and remainder of x / y. A zero divisor yields
// an arithmetic error with reason ReasonDivideByZero.
func (x Int) DivMod(y Int) (q, r Int, err error) {
	if len(y.d) == 0 {
		return Int{}, Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonDivideByZero, "mpi.DivMod", "divisor is zero")
	}
	qd, rd := divDigits(x.d, y.d)
	return Int{d: qd}, Int{d: rd}, nil
}

// Div returns x / y rounded toward zero.
func (x Int) Div(y Int) (Int, error) {
	q, _, err := x.DivMod(y)
	return q, err
}

// Mod returns x mod y.
func (x Int) Mod(y Int) (Int, error) {
	_, r, err := x.DivMod(y)
	return r, err
}

// MustMod is Mod for a divisor already known to be non-zero.
func (x Int) MustMod(y Int) Int {
	r, err := x.Mod(y)
	if err != nil {
		panic(err)
	}
	return r
}

// MustDiv is Div for a divisor already known to be non-zero.
func (x Int) MustDiv(y Int) Int {
	q, err := x.Div(y)
	if err != nil {
		panic(err)
	}
	return q
}

// ModWord returns x mod w for a single-digit divisor. It is the cheap path
// the sieve uses against small primes.
func (x Int) ModWord(w uint16) (uint16, error) {
	if w == 0 {
		return 0, cbmpi.ArithmeticErrorf(cbmpi.ReasonDivideByZero, "mpi.ModWord", "divisor is zero")
	}
	var r uint32
	for i := len(x.d) - 1; i >= 0; i-- {
		r = (r<<DigitBits | uint32(x.d[i])) % uint32(w)
	}
	return uint16(r), nil
}

// divDigits divides normalized u by normalized, non-empty v.
func divDigits(u, v []uint16) (q, r []uint16) {
	if cmpDigits(u, v) < 0 {
		r = make([]uint16, len(u))
		copy(r, u)
		return nil, r
	}
	if len(v) == 1 {
		return divWord(u, v[0])
	}
	return divKnuth(u, v)
}

func divWord(u []uint16, w uint16) (q, r []uint16) {
	q = make([]uint16, len(u))
	var rem uint32
	for i := len(u) - 1; i >= 0; i-- {
		t := rem<<DigitBits | uint32(u[i])
		q[i] = uint16(t / uint32(w))
		rem = t % uint32(w)
	}
	return norm(q), norm([]uint16{uint16(rem)})
}

// divKnuth is Knuth's algorithm D (TAOCP vol. 2, 4.3.1) for len(v) >= 2 and
// u >= v, in the form given by Hacker's Delight divmnu.
func divKnuth(u, v []uint16) (q, r []uint16) {
	const b = 1 << DigitBits
	n := len(v)
	m := len(u) - n

	// D1: normalize so the top digit of the divisor has its high bit set.
	s := uint(bits.LeadingZeros16(v[n-1]))
	vn := make([]uint16, n)
	for i := n - 1; i > 0; i-- {
		vn[i] = v[i]<<s | v[i-1]>>(DigitBits-s)
	}
	vn[0] = v[0] << s

	un := make([]uint16, len(u)+1)
	un[len(u)] = u[len(u)-1] >> (DigitBits - s)
	for i := len(u) - 1; i > 0; i-- {
		un[i] = u[i]<<s | u[i-1]>>(DigitBits-s)
	}
	un[0] = u[0] << s

	q = make([]uint16, m+1)
	vTop := uint64(vn[n-1])
	vNext := uint64(vn[n-2])

	for j := m; j >= 0; j-- {
		// D3: estimate the quotient digit from the top two dividend digits.
		num := uint64(un[j+n])<<DigitBits | uint64(un[j+n-1])
		qhat := num / vTop
		rhat := num % vTop
		for qhat >= b || qhat*vNext > (rhat<<DigitBits|uint64(un[j+n-2])) {
			qhat--
			rhat += vTop
			if rhat >= b {
				break
			}
		}

		// D4: multiply and subtract.
		var k int64
		for i := 0; i < n; i++ {
			p := qhat * uint64(vn[i])
			t := int64(un[i+j]) - k - int64(p&digitMask)
			un[i+j] = uint16(t)
			k = int64(p>>DigitBits) - (t >> DigitBits)
		}
		t := int64(un[j+n]) - k
		un[j+n] = uint16(t)

		// D5/D6: the estimate was one too large; add the divisor back.
		if t < 0 {
			qhat--
			var c uint32
			for i := 0; i < n; i++ {
				sum := uint32(un[i+j]) + uint32(vn[i]) + c
				un[i+j] = uint16(sum)
				c = sum >> DigitBits
			}
			un[j+n] += uint16(c)
		}
		q[j] = uint16(qhat)
	}

	// D8: unnormalize the remainder.
	r = make([]uint16, n)
	for i := 0; i < n-1; i++ {
		r[i] = un[i]>>s | un[i+1]<<(DigitBits-s)
	}
	r[n-1] = un[n-1] >> s
	return norm(q), norm(r)
}
