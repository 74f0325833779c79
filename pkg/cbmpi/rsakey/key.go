package rsakey

import (
	"log/slog"
	"strconv"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/logging"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/numtheory"
)

var (
	one = mpi.FromUint64(1)
	two = mpi.FromUint64(2)
)

// PublicKey is the public half of an RSA key pair.
type PublicKey struct {
	n mpi.Int
	e mpi.Int
}

// NewPublicKey returns a public key for modulus n and exponent e.
func NewPublicKey(n, e mpi.Int) (*PublicKey, error) {
	const op = "rsakey.NewPublicKey"
	if n.Cmp(two) <= 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "modulus %s too small", n)
	}
	if err := checkExponent(op, e); err != nil {
		return nil, err
	}
	return &PublicKey{n: n, e: e}, nil
}

// N returns the modulus.
func (k *PublicKey) N() mpi.Int { return k.n }

// E returns the public exponent.
func (k *PublicKey) E() mpi.Int { return k.e }

// BitLen returns the bit length of the modulus.
func (k *PublicKey) BitLen() int { return k.n.BitLen() }

// Equal reports whether k and o have the same modulus and exponent.
func (k *PublicKey) Equal(o *PublicKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.n.Equal(o.n) && k.e.Equal(o.e)
}

// String returns the text form "n:e".
func (k *PublicKey) String() string {
	return k.n.String() + fieldSep + k.e.String()
}

// PrivateKey is an RSA key pair with the CRT terms used for fast private
// operations. It is immutable until Destroy is called.
type PrivateKey struct {
	PublicKey

	d       mpi.Int
	p       mpi.Int
	q       mpi.Int
	ppowqm1 mpi.Int // p^(q-1) mod n
	qpowpm1 mpi.Int // q^(p-1) mod n
}

// New builds a key pair from two distinct primes and a public exponent. The
// primes are only spot-checked with one strong-pseudoprime round to base 2;
// callers supplying their own primes are responsible for their primality.
func New(p, q, e mpi.Int) (*PrivateKey, error) {
	const op = "rsakey.New"
	if p.Cmp(one) <= 0 || q.Cmp(one) <= 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "prime factors must exceed 1")
	}
	if p.Equal(q) {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "prime factors are equal")
	}
	if err := checkExponent(op, e); err != nil {
		return nil, err
	}
	if !numtheory.RabinTest(p, two) || !numtheory.RabinTest(q, two) {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "prime factor is composite")
	}
	return build(op, p, q, e)
}

// build derives n, d and the CRT terms. p and q are assumed prime.
func build(op string, p, q, e mpi.Int) (*PrivateKey, error) {
	pm1, qm1 := p.MustSub(one), q.MustSub(one)
	phi := pm1.Mul(qm1)
	if !numtheory.GCD(e, phi).Equal(one) {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "exponent shares a factor with the totient")
	}
	d, err := numtheory.ModInverse(e, phi)
	if err != nil {
		return nil, err
	}

	n := p.Mul(q)
	ppowqm1, err := numtheory.ModExp(p, qm1, n)
	if err != nil {
		return nil, err
	}
	qpowpm1, err := numtheory.ModExp(q, pm1, n)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		PublicKey: PublicKey{n: n, e: e},
		d:         d,
		p:         p.Clone(),
		q:         q.Clone(),
		ppowqm1:   ppowqm1,
		qpowpm1:   qpowpm1,
	}, nil
}

func checkExponent(op string, e mpi.Int) error {
	if e.Cmp(one) <= 0 || !e.IsOdd() {
		return cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "public exponent %s must be odd and greater than 1", e)
	}
	return nil
}

// Public returns a copy of the public half.
func (k *PrivateKey) Public() *PublicKey {
	pub := k.PublicKey
	return &pub
}

// D returns the private exponent.
func (k *PrivateKey) D() mpi.Int { return k.d }

// P returns the first prime factor.
func (k *PrivateKey) P() mpi.Int { return k.p }

// Q returns the second prime factor.
func (k *PrivateKey) Q() mpi.Int { return k.q }

// PpowQm1 returns p^(q-1) mod n.
func (k *PrivateKey) PpowQm1() mpi.Int { return k.ppowqm1 }

// QpowPm1 returns q^(p-1) mod n.
func (k *PrivateKey) QpowPm1() mpi.Int { return k.qpowpm1 }

// Destroy overwrites the secret values. Values previously returned by the
// accessors share storage with the key and are wiped as well. The primes
// passed to New are copied and stay intact. The key must
// not be used afterwards.
func (k *PrivateKey) Destroy() {
	k.d.Wipe()
	k.p.Wipe()
	k.q.Wipe()
	k.ppowqm1.Wipe()
	k.qpowpm1.Wipe()
}

// String describes the key without revealing secret values.
func (k *PrivateKey) String() string {
	return "rsakey.PrivateKey(" + strconv.Itoa(k.BitLen()) + " bits)"
}

// LogValue implements slog.LogValuer so a logged key never prints its
// secrets.
func (k *PrivateKey) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bits", k.BitLen()),
		slog.String("e", k.e.String()),
		logging.Redacted("d"),
		logging.Redacted("p"),
		logging.Redacted("q"),
	)
}
