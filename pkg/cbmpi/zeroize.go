package cbmpi

import "runtime"

// ZeroizeDigits overwrites the provided digit slice with zeros and prevents
// compiler dead store elimination using runtime.KeepAlive (golang/go#33325).
//
// Copies made earlier by arithmetic are not reached; callers wipe the values
// they own.
func ZeroizeDigits(digits []uint16) {
	for i := range digits {
		digits[i] = 0
	}
	runtime.KeepAlive(digits)
}

// ZeroizeBytes is the byte-slice counterpart of ZeroizeDigits.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
