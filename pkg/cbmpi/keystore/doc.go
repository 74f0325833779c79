// Package keystore persists RSA key pairs in SQLite through
// github.com/mattn/go-sqlite3 (cgo).
//
// Keys live in the rsa_keys table, one row per label, with n, e, d, p and q
// stored as mpi hex text. Loading a private key re-derives and checks every
// value through rsakey.ParsePrivateKey, so a tampered row fails to load
// rather than producing a broken key.
//
// The database holds private exponents in the clear. Protect the file the
// same way as any other private key material.
package keystore
