// Package cbmpi holds what the cb-mpi-go packages share: the closed error
// taxonomy, generation configuration, build version and zeroization helpers.
//
// The arithmetic lives in the subpackages:
//
//   - mpi: arbitrary-precision unsigned integers
//   - sieve: small-prime table and per-request composite sieve
//   - numtheory: gcd, inverse, modular and CRT exponentiation, primality tests
//   - random: random-source contract with system and deterministic sources
//   - prime: probable-prime generation
//   - rsakey: textbook RSA key pairs and their text form
//   - rsa: block encryption, decryption and signatures
//   - keystore: SQLite persistence for key pairs
//
// Errors from every subpackage are *Error values. Match them with errors.Is
// against the sentinels in this package:
//
//	if errors.Is(err, cbmpi.ErrDivideByZero) { ... }
//
// or read the fields with errors.As.
package cbmpi
