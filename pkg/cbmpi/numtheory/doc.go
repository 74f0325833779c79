// Package numtheory provides the number-theoretic primitives behind RSA key
// generation: gcd and lcm, modular inverse, modular exponentiation (plain and
// Chinese-remainder split), and the Rabin strong and Fermat probable-prime
// tests.
//
// All functions take and return mpi.Int values and never mutate their
// arguments. None of them runs in constant time.
//
// ProbablyPrime repeats RabinTest with witnesses from a WitnessSource.
// RandomWitnesses is the normal choice; SequentialWitnesses reproduces the
// fixed 2, 3, 4, ... sequence used by older test vectors.
package numtheory
