package sieve

import (
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
)

// Window flags the offsets 0..Size()-1 above a base number that are known
// to be divisible by one of the table's primes. Offset k stands for base+k.
type Window struct {
	base      mpi.Int
	composite []bool
}

// NewWindow marks size offsets above base using every prime of table. The
// base must exceed the table's largest prime, otherwise a small prime would
// mark itself as composite.
func NewWindow(base mpi.Int, size int, table *SmallPrimes) (*Window, error) {
	const op = "sieve.NewWindow"
	if table == nil {
		table = Default()
	}
	if size <= 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "window size %d", size)
	}
	if base.Cmp(mpi.FromUint64(uint64(table.Largest()))) <= 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op,
			"%d-bit base not above largest small prime %d", base.BitLen(), table.Largest())
	}

	w := &Window{base: base, composite: make([]bool, size)}
	for _, p := range table.primes {
		r, err := base.ModWord(p)
		if err != nil {
			return nil, err
		}
		step := int(p)
		for k := (step - int(r)) % step; k < size; k += step {
			w.composite[k] = true
		}
	}
	return w, nil
}

// IsComposite reports whether base+offset is known to be composite. Offsets
// outside the window report true.
func (w *Window) IsComposite(offset int) bool {
	if offset < 0 || offset >= len(w.composite) {
		return true
	}
	return w.composite[offset]
}

// Size returns the number of offsets in the window.
func (w *Window) Size() int { return len(w.composite) }

// Base returns the number offset 0 stands for.
func (w *Window) Base() mpi.Int { return w.base }

// Candidate returns base+offset.
func (w *Window) Candidate(offset int) mpi.Int {
	return w.base.Add(mpi.FromUint64(uint64(offset)))
}
