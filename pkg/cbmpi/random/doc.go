// Package random defines the random-source contract consumed by prime and
// key generation, and provides two sources.
//
// System wraps crypto/rand and is what production callers should use.
// NewDeterministic expands a seed into a ChaCha20 keystream so that tests and
// recorded vectors can regenerate identical primes and keys:
//
//	src, err := random.NewDeterministic([]byte("vector-1"))
//	if err != nil {
//	    return err
//	}
//	gen, err := prime.NewGenerator(cfg, prime.WithSource(src))
//	if err != nil {
//	    return err
//	}
//	p, err := gen.Generate(ctx, 256)
//
// The helpers Bytes, Uint16, Uint32, IntN and Range read from any Source and
// report failures as errors matching cbmpi.ErrRandomSource. A source that
// returns fewer bytes than requested fails the whole call.
package random
