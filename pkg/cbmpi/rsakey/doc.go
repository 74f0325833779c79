// Package rsakey generates and serializes textbook RSA key pairs.
//
// A PrivateKey holds the modulus n = p*q, the public exponent e, the private
// exponent d = e^-1 mod (p-1)(q-1), the primes themselves and the CRT terms
// p^(q-1) mod n and q^(p-1) mod n that rsa.DecryptCRT consumes. Public
// returns the PublicKey half.
//
//	key, err := rsakey.Generate(ctx, 2048)
//	if err != nil {
//	    return err
//	}
//	defer key.Destroy()
//
// The public exponent defaults to 65537 (hex "00010001") and can be changed
// through cbmpi.Config.PublicExponent or WithExponent.
//
// # Text form
//
// Keys serialize as colon-separated mpi hex fields: "n:e" for a PublicKey and
// "n:e:d:p:q" for a PrivateKey. Parsing a private key recomputes every
// derived value from p, q and e and rejects text whose n or d disagree.
package rsakey
