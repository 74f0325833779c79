// Package prime generates random probable primes for RSA.
//
// A Generator draws a random base of the requested bit length with its two
// top bits and its low bit set, sieves a window of odd offsets above it
// against the small-prime table, and puts survivors through a Fermat base-2
// pre-test and then cbmpi.Config.PrimeRounds strong-pseudoprime rounds. A
// window with no survivor is abandoned for a fresh base; after
// Config.MaxPrimeAttempts bases generation fails with an error matching
// cbmpi.ErrGenerationFailure.
//
//	gen, err := prime.NewGenerator(cbmpi.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	p, err := gen.Generate(ctx, 1024)
//
// Generation checks ctx between candidates and returns ctx.Err() once it is
// cancelled.
package prime
