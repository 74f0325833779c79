package rsakey

import (
	"strings"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
)

const fieldSep = ":"

// MarshalText encodes the key as "n:e" with both fields in mpi hex form.
func (k *PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes the form written by MarshalText.
func (k *PublicKey) UnmarshalText(text []byte) error {
	pub, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*k = *pub
	return nil
}

// MarshalText encodes the key as "n:e:d:p:q". The output contains the
// secret values.
func (k *PrivateKey) MarshalText() ([]byte, error) {
	fields := []string{k.n.String(), k.e.String(), k.d.String(), k.p.String(), k.q.String()}
	return []byte(strings.Join(fields, fieldSep)), nil
}

// UnmarshalText decodes the form written by MarshalText.
func (k *PrivateKey) UnmarshalText(text []byte) error {
	priv, err := ParsePrivateKey(string(text))
	if err != nil {
		return err
	}
	*k = *priv
	return nil
}

// ParsePublicKey parses "n:e".
func ParsePublicKey(s string) (*PublicKey, error) {
	const op = "rsakey.ParsePublicKey"
	f, err := splitFields(op, s, 2)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(f[0], f[1])
}

// ParsePrivateKey parses "n:e:d:p:q". The CRT terms are recomputed from p
// and q, and n and d must match the values derived from them.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	const op = "rsakey.ParsePrivateKey"
	f, err := splitFields(op, s, 5)
	if err != nil {
		return nil, err
	}
	n, e, d, p, q := f[0], f[1], f[2], f[3], f[4]
	k, err := New(p, q, e)
	if err != nil {
		return nil, err
	}
	if !k.n.Equal(n) {
		k.Destroy()
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "modulus does not equal p*q")
	}
	if !k.d.Equal(d) {
		k.Destroy()
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "private exponent does not match e, p and q")
	}
	return k, nil
}

func splitFields(op, s string, want int) ([]mpi.Int, error) {
	parts := strings.Split(strings.TrimSpace(s), fieldSep)
	if len(parts) != want {
		return nil, cbmpi.Errorf(cbmpi.KindParse, op, "want %d fields, got %d", want, len(parts))
	}
	out := make([]mpi.Int, want)
	for i, part := range parts {
		v, err := mpi.Parse(part)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
