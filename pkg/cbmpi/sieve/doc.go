// Package sieve rejects cheap composites before a candidate reaches the
// expensive primality tests.
//
// SmallPrimes is a sieve of Eratosthenes over odd values only, built once per
// process by Default or explicitly by NewSmallPrimes. A Window then marks,
// for a random base, every offset whose value is divisible by one of those
// small primes. Scanning a window never proves primality; survivors still go
// through numtheory.ProbablyPrime.
package sieve
