// Package rsa applies textbook RSA to single blocks: an mpi.Int strictly
// below the key's modulus. There is no padding; callers that need
// semantic security must add it themselves.
//
//	c, err := rsa.Encrypt(key.Public(), m)
//	...
//	m2, err := rsa.DecryptCRT(key, c)
//
// Decrypt and DecryptCRT always agree; DecryptCRT is roughly four times
// faster for large keys. A block not below the modulus is rejected with an
// error matching cbmpi.ErrInvalidArgument instead of being reduced.
package rsa
