package rsakey

import (
	"context"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/logging"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/numtheory"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/prime"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/sieve"
)

// MinBits is the smallest modulus Generate accepts.
const MinBits = 16

type options struct {
	cfg      cbmpi.Config
	exponent *mpi.Int
	src      random.Source
	table    *sieve.SmallPrimes
	logger   logging.Logger
}

// Option configures Generate.
type Option func(*options)

// WithConfig replaces the default generation configuration.
func WithConfig(cfg cbmpi.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithExponent overrides the public exponent from the configuration.
func WithExponent(e mpi.Int) Option {
	return func(o *options) { o.exponent = &e }
}

// WithSource sets the random source. Defaults to random.System().
func WithSource(src random.Source) Option {
	return func(o *options) { o.src = src }
}

// WithSmallPrimes sets the sieve table passed to the prime generator.
func WithSmallPrimes(table *sieve.SmallPrimes) Option {
	return func(o *options) { o.table = table }
}

// WithLogger sets the logger for generation progress.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Generate creates a key pair whose modulus has exactly bits bits. p gets
// bits-bits/2 bits and q gets bits/2. Pairs whose totient shares a factor
// with e are discarded; after Config.MaxKeyAttempts pairs generation fails
// with an error matching cbmpi.ErrGenerationFailure.
func Generate(ctx context.Context, bits int, opts ...Option) (*PrivateKey, error) {
	const op = "rsakey.Generate"
	o := options{cfg: cbmpi.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg = o.cfg.WithDefaults()
	logger := logging.OrDiscard(o.logger).With("op", op)

	if bits < MinBits {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "bit length %d below %d", bits, MinBits)
	}
	e, err := o.publicExponent()
	if err != nil {
		return nil, err
	}
	if err := checkExponent(op, e); err != nil {
		return nil, err
	}

	gen, err := prime.NewGenerator(o.cfg,
		prime.WithSource(o.src),
		prime.WithSmallPrimes(o.table),
		prime.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	pBits, qBits := bits-bits/2, bits/2
	maxAttempts := o.cfg.MaxKeyAttempts
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		p, err := gen.Generate(ctx, pBits)
		if err != nil {
			return nil, err
		}
		q, err := gen.Generate(ctx, qBits)
		if err != nil {
			return nil, err
		}
		for p.Equal(q) && attempt < maxAttempts {
			attempt++
			if q, err = gen.Generate(ctx, qBits); err != nil {
				return nil, err
			}
		}
		if p.Equal(q) {
			break
		}

		phi := p.MustSub(one).Mul(q.MustSub(one))
		if !numtheory.GCD(e, phi).Equal(one) {
			logger.Debug(ctx, "totient shares a factor with e", "attempt", attempt)
			continue
		}
		if p.Mul(q).BitLen() != bits {
			logger.Debug(ctx, "modulus has wrong length", "attempt", attempt)
			continue
		}

		key, err := build(op, p, q, e)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "rsa key generated",
			"bits", key.BitLen(),
			"attempts", attempt,
			"e", e.String(),
			logging.Redacted("d"),
		)
		return key, nil
	}
	return nil, cbmpi.Errorf(cbmpi.KindGenerationFailure, op, "no %d-bit key after %d attempts", bits, maxAttempts)
}

func (o *options) publicExponent() (mpi.Int, error) {
	if o.exponent != nil {
		return *o.exponent, nil
	}
	return mpi.Parse(o.cfg.PublicExponent)
}
