package rsakey_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsakey"
)

func TestPrivateKeyText(t *testing.T) {
	key, err := rsakey.New(u(5), u(7), e65537)
	require.NoError(t, err)

	text, err := key.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0023:00010001:0011:0005:0007", string(text))

	parsed, err := rsakey.ParsePrivateKey(string(text))
	require.NoError(t, err)
	assert.True(t, parsed.Public().Equal(key.Public()))
	assert.True(t, parsed.D().Equal(key.D()))
	assert.True(t, parsed.PpowQm1().Equal(key.PpowQm1()))
	assert.True(t, parsed.QpowPm1().Equal(key.QpowPm1()))

	pubText, err := key.Public().MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0023:00010001", string(pubText))
	pub, err := rsakey.ParsePublicKey(string(pubText))
	require.NoError(t, err)
	assert.True(t, pub.Equal(key.Public()))
}

func TestGeneratedKeyTextRoundTrip(t *testing.T) {
	key, err := rsakey.Generate(context.Background(), 256, rsakey.WithSource(deterministic(t, "text")))
	require.NoError(t, err)

	text, err := key.MarshalText()
	require.NoError(t, err)
	parsed, err := rsakey.ParsePrivateKey(string(text))
	require.NoError(t, err)
	again, err := parsed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, string(text), string(again))
}

func TestParseRejectsMalformedText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"too few fields", "0023:00010001:0011:0005", cbmpi.ErrParse},
		{"too many fields", "0023:00010001:0011:0005:0007:0001", cbmpi.ErrParse},
		{"empty field", "0023::0011:0005:0007", cbmpi.ErrParse},
		{"bad hex", "0023:00010001:00zz:0005:0007", cbmpi.ErrParse},
		{"modulus mismatch", "0025:00010001:0011:0005:0007", cbmpi.ErrInvalidArgument},
		{"exponent mismatch", "0023:00010001:0013:0005:0007", cbmpi.ErrInvalidArgument},
		{"equal primes", "0031:00010001:0011:0007:0007", cbmpi.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rsakey.ParsePrivateKey(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "%v", err)
		})
	}

	_, err := rsakey.ParsePublicKey("0023")
	assert.True(t, errors.Is(err, cbmpi.ErrParse))
	_, err = rsakey.ParsePublicKey("0023:0002")
	assert.True(t, errors.Is(err, cbmpi.ErrInvalidArgument))
}

func TestKeysEmbedInJSON(t *testing.T) {
	key, err := rsakey.New(u(5), u(7), e65537)
	require.NoError(t, err)

	type record struct {
		Public  *rsakey.PublicKey  `json:"public"`
		Private *rsakey.PrivateKey `json:"private"`
	}
	data, err := json.Marshal(record{Public: key.Public(), Private: key})
	require.NoError(t, err)
	assert.JSONEq(t, `{"public":"0023:00010001","private":"0023:00010001:0011:0005:0007"}`, string(data))

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Public.Equal(key.Public()))
	assert.True(t, out.Private.D().Equal(key.D()))
}
