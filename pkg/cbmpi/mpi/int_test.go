package mpi

import (
	"encoding/json"
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
)

func toBig(x Int) *big.Int {
	return new(big.Int).SetBytes(x.Bytes())
}

func randomInt(r *rand.Rand, maxDigits int) Int {
	n := r.IntN(maxDigits + 1)
	buf := make([]byte, 2*n)
	for i := range buf {
		buf[i] = byte(r.Uint32())
	}
	// Force some values with long runs of 0xffff and 0x0000 digits, which
	// exercise the carry and add-back paths.
	switch r.IntN(4) {
	case 0:
		for i := range buf {
			buf[i] = 0xff
		}
	case 1:
		for i := 2; i < len(buf); i++ {
			buf[i] = 0
		}
	}
	return FromBytes(buf)
}

func TestStringPadding(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{0, "0000"},
		{5, "0005"},
		{35, "0023"},
		{0xffff, "ffff"},
		{65537, "00010001"},
		{0x123456789abc, "123456789abc"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FromUint64(tt.value).String())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"0000", 0},
		{"00000000", 0},
		{"23", 35},
		{"0023", 35},
		{"00010001", 65537},
		{"10001", 65537},
		{"ABCDEF", 0xabcdef},
		{"aBcDeF", 0xabcdef},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			v, ok := got.Uint64()
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "0x23", "12 34", "g000", "-1", "00zz"} {
		_, err := Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, cbmpi.ErrParse), "input %q: %v", in, err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		x := randomInt(r, 40)
		got, err := Parse(x.String())
		require.NoError(t, err)
		require.True(t, x.Equal(got), "round trip of %s gave %s", x, got)
		require.Zero(t, len(x.String())%DigitHex)
	}
}

func TestTextMarshaling(t *testing.T) {
	type doc struct {
		N Int `json:"n"`
	}
	in := doc{N: FromUint64(35)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":"0023"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.N.Equal(out.N))

	err = json.Unmarshal([]byte(`{"n":"xyz"}`), &out)
	assert.Error(t, err)
}

func TestBytesRoundTrip(t *testing.T) {
	assert.Empty(t, Int{}.Bytes())
	assert.Equal(t, []byte{0x01, 0x00, 0x01}, FromUint64(65537).Bytes())
	assert.Equal(t, []byte{0x07}, FromBytes([]byte{0x00, 0x00, 0x07}).Bytes())

	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 100; i++ {
		x := randomInt(r, 30)
		assert.True(t, x.Equal(FromBytes(x.Bytes())))
		assert.Equal(t, 0, toBig(x).Cmp(new(big.Int).SetBytes(x.Bytes())))
	}
}

func TestBitQueries(t *testing.T) {
	x := MustParse("80000001")
	assert.Equal(t, 32, x.BitLen())
	assert.Equal(t, uint(1), x.Bit(0))
	assert.Equal(t, uint(0), x.Bit(1))
	assert.Equal(t, uint(1), x.Bit(31))
	assert.Equal(t, uint(0), x.Bit(32))
	assert.Equal(t, uint(0), x.Bit(-1))
	assert.Equal(t, 0, x.TrailingZeroBits())
	assert.Equal(t, 20, FromUint64(1<<20).TrailingZeroBits())
	assert.Equal(t, 0, Int{}.BitLen())
	assert.True(t, FromUint64(7).IsOdd())
	assert.False(t, FromUint64(8).IsOdd())
	assert.False(t, Int{}.IsOdd())
	assert.True(t, Int{}.IsZero())
	assert.True(t, MustParse("0000").IsZero())
}

func TestUint64(t *testing.T) {
	v, ok := FromUint64(^uint64(0)).Uint64()
	assert.True(t, ok)
	assert.Equal(t, ^uint64(0), v)

	_, ok = FromUint64(1).Lsh(64).Uint64()
	assert.False(t, ok)
}

func TestCloneOwnsDigits(t *testing.T) {
	x := MustParse("123456789abcdef0")
	c := x.Clone()
	x.Wipe()
	assert.Equal(t, "123456789abcdef0", c.String())
	assert.Equal(t, 4, c.Digits())
	assert.True(t, Int{}.Clone().IsZero())
}

func TestWipe(t *testing.T) {
	x := MustParse("123456789abcdef0")
	backing := x.d
	x.Wipe()
	assert.True(t, x.IsZero())
	for _, w := range backing {
		assert.Zero(t, w)
	}
}
