package sieve_test

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/sieve"
)

func isPrimeSlow(v uint64) bool {
	if v < 2 {
		return false
	}
	for d := uint64(2); d*d <= v; d++ {
		if v%d == 0 {
			return false
		}
	}
	return true
}

func TestDefaultTable(t *testing.T) {
	table := sieve.Default()
	assert.Equal(t, 563, table.Len())
	assert.Equal(t, uint16(3), table.At(0))
	assert.Equal(t, uint16(5), table.At(1))
	assert.Equal(t, uint16(4093), table.Largest())
	assert.Same(t, table, sieve.Default())

	primes := table.Primes()
	for i, p := range primes {
		require.True(t, isPrimeSlow(uint64(p)), "%d", p)
		if i > 0 {
			require.Less(t, primes[i-1], p)
		}
	}
	// Nothing was skipped.
	count := 0
	for v := uint64(3); v <= 4097; v += 2 {
		if isPrimeSlow(v) {
			count++
		}
	}
	assert.Equal(t, count, len(primes))

	primes[0] = 9
	assert.Equal(t, uint16(3), table.At(0), "Primes must return a copy")
}

func TestDefaultConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*sieve.SmallPrimes, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = sieve.Default()
		}(i)
	}
	wg.Wait()
	for _, g := range got {
		assert.Same(t, got[0], g)
	}
}

func TestNewSmallPrimes(t *testing.T) {
	table, err := sieve.NewSmallPrimes(10)
	require.NoError(t, err)
	// Values 3..21.
	assert.Equal(t, []uint16{3, 5, 7, 11, 13, 17, 19}, table.Primes())
	assert.True(t, table.Contains(13))
	assert.False(t, table.Contains(15))
	assert.False(t, table.Contains(23))

	for _, w := range []int{0, -1, sieve.MaxWindow + 1} {
		_, err := sieve.NewSmallPrimes(w)
		assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument), "window %d", w)
	}

	largest, err := sieve.NewSmallPrimes(sieve.MaxWindow)
	require.NoError(t, err)
	assert.Equal(t, uint16(65521), largest.Largest())
}

func TestWindowRejectsSmallBase(t *testing.T) {
	table := sieve.Default()
	_, err := sieve.NewWindow(mpi.FromUint64(4093), 100, table)
	assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument))
	assert.NotContains(t, err.Error(), mpi.FromUint64(4093).String())
	assert.Contains(t, err.Error(), "12-bit base")
	_, err = sieve.NewWindow(mpi.FromUint64(17), 100, table)
	assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument))

	_, err = sieve.NewWindow(mpi.FromUint64(4094), 0, table)
	assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument))

	w, err := sieve.NewWindow(mpi.FromUint64(4094), 1, table)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Size())
}

func TestWindowMarksMultiples(t *testing.T) {
	table, err := sieve.NewSmallPrimes(50)
	require.NoError(t, err)
	primes := table.Primes()

	r := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 20; i++ {
		base := uint64(r.Uint32()) + 1000
		const size = 600
		w, err := sieve.NewWindow(mpi.FromUint64(base), size, table)
		require.NoError(t, err)
		require.Equal(t, size, w.Size())
		assert.Equal(t, mpi.FromUint64(base).String(), w.Base().String())

		for k := 0; k < size; k++ {
			v := base + uint64(k)
			want := false
			for _, p := range primes {
				if v%uint64(p) == 0 {
					want = true
					break
				}
			}
			require.Equal(t, want, w.IsComposite(k), "base %d offset %d", base, k)
			got, _ := w.Candidate(k).Uint64()
			require.Equal(t, v, got)
		}
	}
}

func TestWindowNeverRejectsPrimes(t *testing.T) {
	// The secp256k1 field prime minus a few hundred sits far above the
	// table, and the window must keep the prime itself.
	p := mpi.MustParse("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	base := p.MustSub(mpi.FromUint64(300))
	w, err := sieve.NewWindow(base, 1000, nil)
	require.NoError(t, err)
	assert.False(t, w.IsComposite(300))
	assert.True(t, w.Candidate(300).Equal(p))
}

func TestIsCompositeOutOfRange(t *testing.T) {
	w, err := sieve.NewWindow(mpi.FromUint64(10007), 10, sieve.Default())
	require.NoError(t, err)
	assert.False(t, w.IsComposite(0), "10007 is prime")
	assert.True(t, w.IsComposite(-1))
	assert.True(t, w.IsComposite(10))
}
