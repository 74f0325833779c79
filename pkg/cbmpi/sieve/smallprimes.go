package sieve

import (
	"sync"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
)

const (
	// DefaultWindow is the number of odd values the default table sieves:
	// 3 through 4097, which holds the 563 odd primes below 4099.
	DefaultWindow = 2048

	// MaxWindow keeps every sieved value within a single 16-bit digit so that
	// window marking can use mpi.Int.ModWord.
	MaxWindow = (1<<16 - 3) / 2
)

// SmallPrimes is an immutable table of the odd primes found by sieving a
// fixed number of odd values starting at 3. Flag index i stands for the
// value 2i+3.
type SmallPrimes struct {
	primes []uint16
}

// NewSmallPrimes sieves window odd values and returns the primes among them.
func NewSmallPrimes(window int) (*SmallPrimes, error) {
	if window < 1 || window > MaxWindow {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, "sieve.NewSmallPrimes",
			"window %d outside [1, %d]", window, MaxWindow)
	}
	composite := make([]bool, window)
	var primes []uint16
	for i := 0; i < window; i++ {
		if composite[i] {
			continue
		}
		p := 2*i + 3
		primes = append(primes, uint16(p))
		// p*p has index (p*p-3)/2; successive odd multiples are p indices apart.
		for j := (p*p - 3) / 2; j < window; j += p {
			composite[j] = true
		}
	}
	return &SmallPrimes{primes: primes}, nil
}

var defaultTable = sync.OnceValue(func() *SmallPrimes {
	t, err := NewSmallPrimes(DefaultWindow)
	if err != nil {
		panic(err)
	}
	return t
})

// Default returns the process-wide table built from DefaultWindow. It is
// constructed on first use and shared afterwards.
func Default() *SmallPrimes {
	return defaultTable()
}

// Primes returns a copy of the table in increasing order.
func (t *SmallPrimes) Primes() []uint16 {
	out := make([]uint16, len(t.primes))
	copy(out, t.primes)
	return out
}

// Len returns the number of primes in the table.
func (t *SmallPrimes) Len() int { return len(t.primes) }

// At returns the i-th prime, starting from 3 at index 0.
func (t *SmallPrimes) At(i int) uint16 { return t.primes[i] }

// Largest returns the largest prime in the table.
func (t *SmallPrimes) Largest() uint16 { return t.primes[len(t.primes)-1] }

// Contains reports whether v is one of the table's primes.
func (t *SmallPrimes) Contains(v uint16) bool {
	lo, hi := 0, len(t.primes)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.primes[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(t.primes) && t.primes[lo] == v
}
