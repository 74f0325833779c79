package rsa

import (
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/numtheory"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsakey"
)

// checkBlock rejects nil keys and blocks that are not below the modulus.
func checkBlock(op string, pub *rsakey.PublicKey, x mpi.Int) error {
	if pub == nil {
		return cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "nil key")
	}
	if x.Cmp(pub.N()) >= 0 {
		return cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "block of %d bits not below %d-bit modulus", x.BitLen(), pub.BitLen())
	}
	return nil
}

// Encrypt returns m^e mod n.
func Encrypt(pub *rsakey.PublicKey, m mpi.Int) (mpi.Int, error) {
	if err := checkBlock("rsa.Encrypt", pub, m); err != nil {
		return mpi.Int{}, err
	}
	return numtheory.ModExp(m, pub.E(), pub.N())
}

// Decrypt returns c^d mod n using the full private exponent.
func Decrypt(priv *rsakey.PrivateKey, c mpi.Int) (mpi.Int, error) {
	if priv == nil {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, "rsa.Decrypt", "nil key")
	}
	if err := checkBlock("rsa.Decrypt", &priv.PublicKey, c); err != nil {
		return mpi.Int{}, err
	}
	return numtheory.ModExp(c, priv.D(), priv.N())
}

// DecryptCRT returns c^d mod n through the two half-size exponentiations
// modulo p and q. The result equals Decrypt.
func DecryptCRT(priv *rsakey.PrivateKey, c mpi.Int) (mpi.Int, error) {
	if priv == nil {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, "rsa.DecryptCRT", "nil key")
	}
	if err := checkBlock("rsa.DecryptCRT", &priv.PublicKey, c); err != nil {
		return mpi.Int{}, err
	}
	return crt(priv, c)
}

func crt(priv *rsakey.PrivateKey, x mpi.Int) (mpi.Int, error) {
	return numtheory.CRTModExp(x, priv.D(), priv.P(), priv.Q(), priv.PpowQm1(), priv.QpowPm1(), priv.N())
}

// Sign returns m^d mod n, computed with the CRT terms.
func Sign(priv *rsakey.PrivateKey, m mpi.Int) (mpi.Int, error) {
	if priv == nil {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, "rsa.Sign", "nil key")
	}
	if err := checkBlock("rsa.Sign", &priv.PublicKey, m); err != nil {
		return mpi.Int{}, err
	}
	return crt(priv, m)
}

// Verify reports whether s^e mod n equals m. Out-of-range values never
// verify.
func Verify(pub *rsakey.PublicKey, s, m mpi.Int) bool {
	if checkBlock("rsa.Verify", pub, s) != nil || checkBlock("rsa.Verify", pub, m) != nil {
		return false
	}
	got, err := numtheory.ModExp(s, pub.E(), pub.N())
	return err == nil && got.Equal(m)
}
