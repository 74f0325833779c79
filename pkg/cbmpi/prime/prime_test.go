package prime_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/prime"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/sieve"
)

func newGenerator(t *testing.T, seed string, cfg cbmpi.Config, opts ...prime.Option) *prime.Generator {
	t.Helper()
	src, err := random.NewDeterministic([]byte(seed))
	require.NoError(t, err)
	gen, err := prime.NewGenerator(cfg, append([]prime.Option{prime.WithSource(src)}, opts...)...)
	require.NoError(t, err)
	return gen
}

func TestGenerateBitLengths(t *testing.T) {
	cfg := cbmpi.DefaultConfig()
	cfg.PrimeRounds = 20
	gen := newGenerator(t, "bit lengths", cfg)

	for _, bits := range []int{2, 3, 4, 5, 8, 12, 13, 16, 17, 33, 64, 128, 256} {
		p, err := gen.Generate(context.Background(), bits)
		require.NoError(t, err, "bits=%d", bits)
		require.Equal(t, bits, p.BitLen(), "bits=%d got %s", bits, p)
		assert.Equal(t, uint(1), p.Bit(bits-1))
		assert.Equal(t, uint(1), p.Bit(bits-2), "second bit of %s", p)

		oracle := new(big.Int).SetBytes(p.Bytes())
		assert.True(t, oracle.ProbablyPrime(20), "bits=%d value %s", bits, p)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	a, err := newGenerator(t, "same", cbmpi.DefaultConfig()).Generate(context.Background(), 96)
	require.NoError(t, err)
	b, err := newGenerator(t, "same", cbmpi.DefaultConfig()).Generate(context.Background(), 96)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestGenerateSequentialWitnesses(t *testing.T) {
	cfg := cbmpi.DefaultConfig()
	cfg.Witnesses = cbmpi.WitnessSequential
	cfg.PrimeRounds = 8
	table, err := sieve.NewSmallPrimes(64)
	require.NoError(t, err)
	gen := newGenerator(t, "sequential", cfg, prime.WithSmallPrimes(table))

	p, err := gen.Generate(context.Background(), 160)
	require.NoError(t, err)
	assert.Equal(t, 160, p.BitLen())
	assert.True(t, new(big.Int).SetBytes(p.Bytes()).ProbablyPrime(20))
	assert.Equal(t, cbmpi.WitnessSequential, gen.Config().Witnesses)
}

func TestGenerateSmallTableTrialDivision(t *testing.T) {
	// The table ends at 241, so 8-bit bases up to 241 take the trial
	// division path and larger ones the window path.
	table, err := sieve.NewSmallPrimes(120)
	require.NoError(t, err)
	gen := newGenerator(t, "tiny table", cbmpi.DefaultConfig(), prime.WithSmallPrimes(table))
	for i := 0; i < 50; i++ {
		p, err := gen.Generate(context.Background(), 8)
		require.NoError(t, err)
		v, _ := p.Uint64()
		require.True(t, big.NewInt(int64(v)).ProbablyPrime(10), "%d", v)
		require.True(t, v >= 192 && v < 256, "%d", v)
	}
}

func TestGenerateRejectsShortBitLength(t *testing.T) {
	gen := newGenerator(t, "short", cbmpi.DefaultConfig())
	for _, bits := range []int{-1, 0, 1} {
		_, err := gen.Generate(context.Background(), bits)
		assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument), "bits=%d", bits)
	}
}

type constantSource byte

func (c constantSource) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func TestGenerateGivesUp(t *testing.T) {
	cfg := cbmpi.DefaultConfig()
	cfg.SieveWindow = 2
	cfg.MaxPrimeAttempts = 3
	cfg.Witnesses = cbmpi.WitnessSequential
	// Every base is 2^64-1, a multiple of 3.
	gen, err := prime.NewGenerator(cfg, prime.WithSource(constantSource(0xff)))
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), 64)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cbmpi.ErrGenerationFailure))
	assert.Equal(t, cbmpi.KindGenerationFailure, cbmpi.KindOf(err))
}

type failingSource struct{}

func (failingSource) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestGenerateRandomSourceFailure(t *testing.T) {
	gen, err := prime.NewGenerator(cbmpi.DefaultConfig(), prime.WithSource(failingSource{}))
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), 128)
	assert.True(t, errors.Is(err, cbmpi.ErrRandomSource))
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := newGenerator(t, "cancel", cbmpi.DefaultConfig())
	_, err := gen.Generate(ctx, 512)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGeneratorValidatesConfig(t *testing.T) {
	cfg := cbmpi.DefaultConfig()
	cfg.Witnesses = "psychic"
	_, err := prime.NewGenerator(cfg)
	assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument))

	gen, err := prime.NewGenerator(cbmpi.Config{})
	require.NoError(t, err)
	assert.Equal(t, cbmpi.DefaultConfig(), gen.Config())
}

func BenchmarkGenerate512(b *testing.B) {
	src, err := random.NewDeterministic([]byte("bench"))
	require.NoError(b, err)
	gen, err := prime.NewGenerator(cbmpi.DefaultConfig(), prime.WithSource(src))
	require.NoError(b, err)
	for i := 0; i < b.N; i++ {
		_, err := gen.Generate(context.Background(), 512)
		require.NoError(b, err)
	}
}
