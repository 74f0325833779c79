package random

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/mpi"
)

// Source is a cryptographically strong byte source. Read must either fill p
// completely or return an error; short reads are treated as failures.
type Source interface {
	Read(p []byte) (n int, err error)
}

type systemSource struct{}

func (systemSource) Read(p []byte) (int, error) {
	return rand.Read(p)
}

// System returns the operating system's entropy source. It is safe for
// concurrent use.
func System() Source {
	return systemSource{}
}

// Bytes reads exactly n bytes from src.
func Bytes(src Source, n int) ([]byte, error) {
	const op = "random.Bytes"
	if n < 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "negative length %d", n)
	}
	if src == nil {
		return nil, cbmpi.Errorf(cbmpi.KindRandomSource, op, "no random source")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, cbmpi.Wrap(cbmpi.KindRandomSource, op, err)
	}
	return buf, nil
}

// Uint16 reads one uniformly distributed word.
func Uint16(src Source) (uint16, error) {
	buf, err := Bytes(src, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// Uint32 reads one uniformly distributed double word.
func Uint32(src Source) (uint32, error) {
	buf, err := Bytes(src, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// maxRejections bounds IntN's sampling loop. Each draw is accepted with
// probability above one half, so hitting it means the source is broken.
const maxRejections = 256

// IntN returns a uniformly distributed value in [0, bound) by rejection
// sampling on bound.BitLen() random bits.
func IntN(src Source, bound mpi.Int) (mpi.Int, error) {
	const op = "random.IntN"
	if bound.IsZero() {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "bound is zero")
	}
	bitLen := bound.BitLen()
	n := (bitLen + 7) / 8
	excess := uint(n*8 - bitLen)
	for i := 0; i < maxRejections; i++ {
		buf, err := Bytes(src, n)
		if err != nil {
			return mpi.Int{}, err
		}
		buf[0] &= 0xff >> excess
		v := mpi.FromBytes(buf)
		if v.Cmp(bound) < 0 {
			return v, nil
		}
	}
	return mpi.Int{}, cbmpi.Errorf(cbmpi.KindRandomSource, op, "no value below bound after %d draws", maxRejections)
}

// Range returns a uniformly distributed value in [lo, hi).
func Range(src Source, lo, hi mpi.Int) (mpi.Int, error) {
	width, err := hi.Sub(lo)
	if err != nil || width.IsZero() {
		return mpi.Int{}, cbmpi.Errorf(cbmpi.KindInvalidArgument, "random.Range", "empty range of %d-bit and %d-bit bounds", lo.BitLen(), hi.BitLen())
	}
	v, err := IntN(src, width)
	if err != nil {
		return mpi.Int{}, err
	}
	return lo.Add(v), nil
}

// Deterministic is a reproducible Source: the ChaCha20 keystream under a key
// and nonce derived from a seed with HKDF-SHA256. The same seed always yields
// the same bytes. It is meant for tests and reproducible vectors, never for
// production keys, and is not safe for concurrent use.
type Deterministic struct {
	stream *chacha20.Cipher
}

const (
	deterministicSalt = "cb-mpi-go/random/deterministic"
	deterministicInfo = "chacha20 key and nonce"
)

// NewDeterministic derives a keystream from seed. The seed must not be empty.
func NewDeterministic(seed []byte) (*Deterministic, error) {
	const op = "random.NewDeterministic"
	if len(seed) == 0 {
		return nil, cbmpi.Errorf(cbmpi.KindInvalidArgument, op, "empty seed")
	}
	kdf := hkdf.New(sha256.New, seed, []byte(deterministicSalt), []byte(deterministicInfo))
	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, material); err != nil {
		return nil, cbmpi.Wrap(cbmpi.KindRandomSource, op, err)
	}
	defer cbmpi.ZeroizeBytes(material)

	stream, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, cbmpi.Wrap(cbmpi.KindRandomSource, op, err)
	}
	return &Deterministic{stream: stream}, nil
}

// Read fills p with the next keystream bytes. It always fills p.
func (d *Deterministic) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	d.stream.XORKeyStream(p, p)
	return len(p), nil
}
