package numtheory

import (
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
)

// trivial settles candidates below 4 and even candidates. ok is false when
// the candidate needs a real test.
func trivial(candidate mpi.Int) (prime, ok bool) {
	if v, small := candidate.Uint64(); small && v < 4 {
		return v >= 2, true
	}
	if !candidate.IsOdd() {
		return false, true
	}
	return false, false
}

// RabinTest runs one round of the strong probable-prime test of candidate
// to the given witness. Writing candidate-1 = 2^s * t with t odd, the
// candidate passes when witness^t is 1 or candidate-1, or when one of the
// next s-1 squarings reaches candidate-1.
//
// A witness divisible by the candidate says nothing and passes.
func RabinTest(candidate, witness mpi.Int) bool {
	if prime, ok := trivial(candidate); ok {
		return prime
	}
	w := witness.MustMod(candidate)
	if w.IsZero() {
		return true
	}

	nm1 := candidate.MustSub(one)
	s := nm1.TrailingZeroBits()
	t := nm1.Rsh(uint(s))

	x, _ := ModExp(w, t, candidate)
	if x.Equal(one) || x.Equal(nm1) {
		return true
	}
	for i := 1; i < s; i++ {
		x = x.Mul(x).MustMod(candidate)
		if x.Equal(nm1) {
			return true
		}
		if x.Equal(one) {
			// A non-trivial square root of 1.
			return false
		}
	}
	return false
}

// FermatTest reports whether witness^(candidate-1) ≡ 1 (mod candidate), with
// the same boundary rules as RabinTest.
func FermatTest(candidate, witness mpi.Int) bool {
	if prime, ok := trivial(candidate); ok {
		return prime
	}
	w := witness.MustMod(candidate)
	if w.IsZero() {
		return true
	}
	x, _ := ModExp(w, candidate.MustSub(one), candidate)
	return x.Equal(one)
}

// WitnessSource yields the witness for each round of ProbablyPrime.
type WitnessSource interface {
	Witness(candidate mpi.Int, round int) (mpi.Int, error)
}

type sequentialWitnesses struct{}

func (sequentialWitnesses) Witness(_ mpi.Int, round int) (mpi.Int, error) {
	return mpi.FromUint64(uint64(round) + 2), nil
}

// SequentialWitnesses returns the witnesses 2, 3, 4, ... in round order.
// The result is fully deterministic and is kept for reproducing recorded
// test vectors; new keys should use RandomWitnesses.
func SequentialWitnesses() WitnessSource {
	return sequentialWitnesses{}
}

type randomWitnesses struct {
	src random.Source
}

func (r randomWitnesses) Witness(candidate mpi.Int, _ int) (mpi.Int, error) {
	// Uniform in [2, candidate-2].
	return random.Range(r.src, two, candidate.MustSub(one))
}

// RandomWitnesses draws every witness uniformly from [2, candidate-2].
func RandomWitnesses(src random.Source) WitnessSource {
	return randomWitnesses{src: src}
}

// ProbablyPrime runs rounds independent RabinTest rounds on candidate. It
// returns false as soon as a witness proves the candidate composite.
// Witness-source failures are returned as errors.
func ProbablyPrime(candidate mpi.Int, rounds int, witnesses WitnessSource) (bool, error) {
	const op = "numtheory.ProbablyPrime"
	if rounds < 1 {
		return false, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "rounds %d", rounds)
	}
	if witnesses == nil {
		return false, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "no witness source")
	}
	if prime, ok := trivial(candidate); ok {
		return prime, nil
	}
	for i := 0; i < rounds; i++ {
		w, err := witnesses.Witness(candidate, i)
		if err != nil {
			return false, err
		}
		if !RabinTest(candidate, w) {
			return false, nil
		}
	}
	return true, nil
}
