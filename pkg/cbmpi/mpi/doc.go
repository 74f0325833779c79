// Package mpi implements arbitrary-precision unsigned integers.
//
// An Int is a normalized little-endian slice of base 2^16 digits. All
// arithmetic returns new values:
//
//	a := mpi.FromUint64(30000000)
//	b := mpi.MustParse("000249f0") // 150000
//	q, r, err := a.DivMod(b)
//
// Multiplication is schoolbook O(n²); division is Knuth's algorithm D. That
// is adequate for moduli of a few thousand bits.
//
// # Text form
//
// String renders four lower-case hex characters per digit, most significant
// first, so 5 renders as "0005" and 65537 as "00010001". Parse accepts any
// hex string and Parse(x.String()) always equals x.
//
// # Errors
//
// Sub never wraps: a negative result is an error matching
// cbmpi.ErrUnderflow. Division by zero matches cbmpi.ErrDivideByZero and
// malformed text matches cbmpi.ErrParse.
//
// Nothing here runs in constant time. Do not use it where timing leaks matter.
package mpi
