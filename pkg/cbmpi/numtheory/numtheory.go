package numtheory

import (
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
)

var (
	one = mpi.FromUint64(1)
	two = mpi.FromUint64(2)
)

// GCD returns the greatest common divisor of a and b. GCD(a, 0) is a and
// GCD(0, 0) is 0.
func GCD(a, b mpi.Int) mpi.Int {
	for !b.IsZero() {
		a, b = b, a.MustMod(b)
	}
	return a
}

// LCM returns the least common multiple of a and b, or 0 when either is 0.
func LCM(a, b mpi.Int) mpi.Int {
	if a.IsZero() || b.IsZero() {
		return mpi.Int{}
	}
	return a.MustDiv(GCD(a, b)).Mul(b)
}

// ModInverse returns x in [0, n) with a*x ≡ 1 (mod n). When a and n share a
// factor no inverse exists and the zero value is returned with a nil error;
// callers must check IsZero. A zero modulus is an error.
//
// The Bezout coefficient is tracked modulo n throughout, so the extended
// Euclidean recurrence never needs a negative value.
func ModInverse(a, n mpi.Int) (mpi.Int, error) {
	if n.IsZero() {
		return mpi.Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonInvalidModulus, "numtheory.ModInverse", "modulus is zero")
	}
	if n.Equal(one) {
		return mpi.Int{}, nil
	}

	r0, r1 := n, a.MustMod(n)
	t0, t1 := mpi.Int{}, one
	for !r1.IsZero() {
		q, r, _ := r0.DivMod(r1)
		r0, r1 = r1, r
		// t0 - q*t1 folded into [0, n).
		qt := q.Mul(t1).MustMod(n)
		t0, t1 = t1, t0.Add(n).MustSub(qt).MustMod(n)
	}
	if !r0.Equal(one) {
		return mpi.Int{}, nil
	}
	return t0, nil
}

// ModExp returns base^exponent mod modulus by right-to-left binary
// exponentiation. A zero modulus is an error; modulus 1 always yields 0.
func ModExp(base, exponent, modulus mpi.Int) (mpi.Int, error) {
	if modulus.IsZero() {
		return mpi.Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonInvalidModulus, "numtheory.ModExp", "modulus is zero")
	}
	if modulus.Equal(one) {
		return mpi.Int{}, nil
	}
	result := one
	b := base.MustMod(modulus)
	n := exponent.BitLen()
	for i := 0; i < n; i++ {
		if exponent.Bit(i) == 1 {
			result = result.Mul(b).MustMod(modulus)
		}
		if i+1 < n {
			b = b.Mul(b).MustMod(modulus)
		}
	}
	return result, nil
}

// CRTModExp computes c^d mod n for n = p*q from the two half-size
// exponentiations (c mod p)^(d mod p-1) and (c mod q)^(d mod q-1), joined
// with the precomputed terms ppowqm1 = p^(q-1) mod n and qpowpm1 =
// q^(p-1) mod n. For a well-formed key the result equals ModExp(c, d, n).
func CRTModExp(c, d, p, q, ppowqm1, qpowpm1, n mpi.Int) (mpi.Int, error) {
	const op = "numtheory.CRTModExp"
	if p.Cmp(two) < 0 || q.Cmp(two) < 0 {
		return mpi.Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonInvalidModulus, op, "prime factor below 2")
	}
	if n.IsZero() {
		return mpi.Int{}, cbmpi.ArithmeticErrorf(cbmpi.ReasonInvalidModulus, op, "modulus is zero")
	}

	mp, err := halfExp(c, d, p)
	if err != nil {
		return mpi.Int{}, err
	}
	mq, err := halfExp(c, d, q)
	if err != nil {
		return mpi.Int{}, err
	}
	return mp.Mul(qpowpm1).Add(mq.Mul(ppowqm1)).MustMod(n), nil
}

// halfExp returns (c mod p)^(d mod (p-1)) mod p. A residue of zero stays
// zero regardless of the reduced exponent.
func halfExp(c, d, p mpi.Int) (mpi.Int, error) {
	cp := c.MustMod(p)
	if cp.IsZero() {
		return mpi.Int{}, nil
	}
	dp := d.MustMod(p.MustSub(one))
	return ModExp(cp, dp, p)
}
