package ecdsa_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/pkg/ecdsa"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
)

// makeSignature produces a plain single-party ECDSA signature.
func makeSignature(group curve.Curve, x, m curve.Scalar) (curve.Point, ecdsa.Signature) {
	k := sample.Scalar(rand.Reader, group)
	R := k.ActOnBase()
	r := R.XScalar()
	// s = k⁻¹(m + r·x)
	s := group.NewScalar().Set(r).Mul(x).Add(m)
	s.Mul(group.NewScalar().Set(k).Invert())
	return x.ActOnBase(), ecdsa.Signature{R: R, S: s}
}

func TestVerify(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.Scalar(rand.Reader, group)
	m := sample.Scalar(rand.Reader, group)

	pk, sig := makeSignature(group, x, m)
	assert.True(t, sig.Verify(pk, m))
}

func TestVerifyRejectsTamperedS(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.Scalar(rand.Reader, group)
	m := sample.Scalar(rand.Reader, group)

	pk, sig := makeSignature(group, x, m)
	sig.S.Add(group.NewScalar().SetUInt32(1))
	assert.False(t, sig.Verify(pk, m))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.Scalar(rand.Reader, group)
	m := sample.Scalar(rand.Reader, group)

	pk, sig := makeSignature(group, x, m)
	other := group.NewScalar().Set(m).Add(group.NewScalar().SetUInt32(1))
	assert.False(t, sig.Verify(pk, other))
}

func TestSerializeDERRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	x := sample.Scalar(rand.Reader, group)
	m := sample.Scalar(rand.Reader, group)

	_, sig := makeSignature(group, x, m)
	der, err := sig.SerializeDER()
	require.NoError(t, err)

	rBytes, sBytes, err := ecdsa.DecodeDER(der)
	require.NoError(t, err)

	wantR, _ := sig.R.XScalar().MarshalBinary()
	wantS, _ := sig.S.MarshalBinary()
	assert.Equal(t, wantR, rBytes)
	assert.Equal(t, wantS, sBytes)
}

func TestDERTopBitPadding(t *testing.T) {
	// r = 0x80...00: top bit set, must gain a 0x00 prefix
	r := make([]byte, 32)
	r[0] = 0x80
	s := make([]byte, 32)
	s[31] = 0x01

	der := ecdsa.EncodeDER(r, s)
	// SEQUENCE, total length, INTEGER r
	require.Equal(t, byte(0x30), der[0])
	require.Equal(t, byte(0x02), der[2])
	assert.Equal(t, byte(33), der[3], "padded integer must be 33 bytes")
	assert.Equal(t, byte(0x00), der[4])

	rBack, sBack, err := ecdsa.DecodeDER(der)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(r, rBack))
	assert.True(t, bytes.Equal(s, sBack))
}

func TestDERStripsLeadingZeros(t *testing.T) {
	r := make([]byte, 32)
	r[31] = 0x7f
	s := make([]byte, 32)
	s[31] = 0x01

	der := ecdsa.EncodeDER(r, s)
	// both integers shrink to a single byte
	assert.Equal(t, byte(0x02), der[2])
	assert.Equal(t, byte(1), der[3])

	rBack, sBack, err := ecdsa.DecodeDER(der)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(r, rBack))
	assert.True(t, bytes.Equal(s, sBack))
}

func TestDecodeDERRejectsGarbage(t *testing.T) {
	_, _, err := ecdsa.DecodeDER([]byte{0x31, 0x00})
	assert.Error(t, err)
	_, _, err = ecdsa.DecodeDER([]byte{0x30, 0x05, 0x02, 0x01, 0x01})
	assert.Error(t, err)
	_, _, err = ecdsa.DecodeDER(nil)
	assert.Error(t, err)
}
