package prime

import (
	"context"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/logging"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/numtheory"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/sieve"
)

var two = mpi.FromUint64(2)

// Generator produces random probable primes of an exact bit length.
// A Generator is safe for concurrent use when its random source is.
type Generator struct {
	cfg       cbmpi.Config
	table     *sieve.SmallPrimes
	src       random.Source
	logger    logging.Logger
	witnesses numtheory.WitnessSource
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource sets the random source used for candidates and witnesses.
// Defaults to random.System().
func WithSource(src random.Source) Option {
	return func(g *Generator) { g.src = src }
}

// WithSmallPrimes sets the small-prime table used for sieving. Defaults to
// sieve.Default().
func WithSmallPrimes(table *sieve.SmallPrimes) Option {
	return func(g *Generator) { g.table = table }
}

// WithLogger sets the logger that receives per-prime statistics at debug
// level. Defaults to logging.Discard().
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator returns a Generator for cfg. Unset fields of cfg take their
// defaults.
func NewGenerator(cfg cbmpi.Config, opts ...Option) (*Generator, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = random.System()
	}
	if g.table == nil {
		g.table = sieve.Default()
	}
	g.logger = logging.OrDiscard(g.logger)
	if cfg.Witnesses == cbmpi.WitnessSequential {
		g.witnesses = numtheory.SequentialWitnesses()
	} else {
		g.witnesses = numtheory.RandomWitnesses(g.src)
	}
	return g, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() cbmpi.Config { return g.cfg }

type stats struct {
	bases  int
	sieved int
	fermat int
	rabin  int
}

// Generate returns a probable prime of exactly bits bits whose two most
// significant bits are set, so the product of two such primes has exactly
// twice the bits. It draws up to Config.MaxPrimeAttempts random bases and
// scans Config.SieveWindow odd candidates above each one.
func (g *Generator) Generate(ctx context.Context, bits int) (mpi.Int, error) {
	const op = "prime.Generate"
	if bits < 2 {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "bit length %d below 2", bits)
	}

	var st stats
	for attempt := 0; attempt < g.cfg.MaxPrimeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return mpi.Int{}, err
		}
		base, err := g.drawBase(bits)
		if err != nil {
			return mpi.Int{}, err
		}
		st.bases++

		p, found, err := g.scan(ctx, base, bits, &st)
		if err != nil {
			return mpi.Int{}, err
		}
		if found {
			g.logger.Debug(ctx, "prime found",
				"bits", bits,
				"bases", st.bases,
				"sieve_survivors", st.sieved,
				"fermat_survivors", st.fermat,
				"rabin_runs", st.rabin,
				logging.Redacted("prime"),
			)
			return p, nil
		}
	}
	g.logger.Warn(ctx, "prime search exhausted", "bits", bits, "bases", st.bases)
	return mpi.Int{}, cbmpi.Errorf(cbmpi.KindGenerationFailure, op,
		"no %d-bit prime after %d bases", bits, g.cfg.MaxPrimeAttempts)
}

// drawBase returns a random odd value of exactly bits bits with its two top
// bits set.
func (g *Generator) drawBase(bits int) (mpi.Int, error) {
	buf, err := random.Bytes(g.src, (bits+7)/8)
	if err != nil {
		return mpi.Int{}, err
	}
	defer cbmpi.ZeroizeBytes(buf)

	buf[0] &= 0xff >> uint(len(buf)*8-bits)
	setBit(buf, bits-1)
	setBit(buf, bits-2)
	setBit(buf, 0)
	return mpi.FromBytes(buf), nil
}

// setBit sets bit i, counted from the least significant end, of the
// big-endian buffer buf.
func setBit(buf []byte, i int) {
	buf[len(buf)-1-i/8] |= 1 << uint(i%8)
}

// scan walks the odd values base, base+2, ... through one window. Bases
// above the table's largest prime are filtered with a sieve.Window; smaller
// ones, which only occur for tiny bit lengths, by trial division.
func (g *Generator) scan(ctx context.Context, base mpi.Int, bits int, st *stats) (mpi.Int, bool, error) {
	size := g.cfg.SieveWindow
	var window *sieve.Window
	if base.Cmp(mpi.FromUint64(uint64(g.table.Largest()))) > 0 {
		w, err := sieve.NewWindow(base, size, g.table)
		if err != nil {
			return mpi.Int{}, false, err
		}
		window = w
	}

	for k := 0; k < size; k += 2 {
		var candidate mpi.Int
		if window != nil {
			if window.IsComposite(k) {
				continue
			}
			candidate = window.Candidate(k)
		} else {
			candidate = base.Add(mpi.FromUint64(uint64(k)))
			known, prime := g.trialDivide(candidate)
			if known {
				if prime && candidate.BitLen() == bits {
					return candidate, true, nil
				}
				if candidate.BitLen() != bits {
					return mpi.Int{}, false, nil
				}
				continue
			}
		}
		if candidate.BitLen() != bits {
			// The window ran past 2^bits; nothing further can qualify.
			return mpi.Int{}, false, nil
		}
		st.sieved++

		if err := ctx.Err(); err != nil {
			return mpi.Int{}, false, err
		}
		ok, err := g.test(candidate, st)
		if err != nil {
			return mpi.Int{}, false, err
		}
		if ok {
			return candidate, true, nil
		}
	}
	return mpi.Int{}, false, nil
}

// trialDivide classifies small candidates against the table. known is false
// when the candidate has no small factor and needs the probabilistic tests.
func (g *Generator) trialDivide(candidate mpi.Int) (known, prime bool) {
	if v, ok := candidate.Uint64(); ok && v < 3 {
		return true, v == 2
	}
	for i := 0; i < g.table.Len(); i++ {
		p := g.table.At(i)
		r, _ := candidate.ModWord(p)
		if r != 0 {
			continue
		}
		v, small := candidate.Uint64()
		return true, small && v == uint64(p)
	}
	return false, false
}

// test runs the Fermat base-2 pre-test followed by the configured number of
// strong-pseudoprime rounds.
func (g *Generator) test(candidate mpi.Int, st *stats) (bool, error) {
	if !numtheory.FermatTest(candidate, two) {
		return false, nil
	}
	st.fermat++
	st.rabin++
	return numtheory.ProbablyPrime(candidate, g.cfg.PrimeRounds, g.witnesses)
}
