package curve_test

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
)

func TestScalarArithmetic(t *testing.T) {
	group := curve.Secp256k1{}

	a := sample.Scalar(rand.Reader, group)
	b := sample.Scalar(rand.Reader, group)

	// (a + b) - b == a
	sum := group.NewScalar().Set(a).Add(b)
	diff := sum.Sub(b)
	assert.True(t, diff.Equal(a))

	// a * a⁻¹ == 1
	one := group.NewScalar().SetUInt32(1)
	aInv := group.NewScalar().Set(a).Invert()
	assert.True(t, aInv.Mul(a).Equal(one))

	// a + (-a) == 0
	neg := group.NewScalar().Set(a).Negate()
	assert.True(t, neg.Add(a).IsZero())
}

func TestScalarMarshalRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	s := sample.Scalar(rand.Reader, group)

	data, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 32)

	recovered := group.NewScalar()
	require.NoError(t, recovered.UnmarshalBinary(data))
	assert.True(t, recovered.Equal(s))
}

func TestPointMarshalRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	P := sample.Scalar(rand.Reader, group).ActOnBase()

	data, err := P.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 33)

	recovered := group.NewPoint()
	require.NoError(t, recovered.UnmarshalBinary(data))
	assert.True(t, recovered.Equal(P))
}

func TestIdentityMarshal(t *testing.T) {
	group := curve.Secp256k1{}
	identity := group.NewPoint()
	require.True(t, identity.IsIdentity())

	data, err := identity.MarshalBinary()
	require.NoError(t, err)

	recovered := group.NewPoint()
	require.NoError(t, recovered.UnmarshalBinary(data))
	assert.True(t, recovered.IsIdentity())
}

func TestPointGroupLaw(t *testing.T) {
	group := curve.Secp256k1{}
	a := sample.Scalar(rand.Reader, group)
	b := sample.Scalar(rand.Reader, group)

	// (a+b)·G == a·G + b·G
	lhs := group.NewScalar().Set(a).Add(b).ActOnBase()
	rhs := a.ActOnBase().Add(b.ActOnBase())
	assert.True(t, lhs.Equal(rhs))

	// P - P == identity
	P := a.ActOnBase()
	assert.True(t, P.Sub(P).IsIdentity())
}

func TestSetNatReduces(t *testing.T) {
	group := curve.Secp256k1{}

	// q + 1 must reduce to 1
	order := new(saferith.Nat).SetBytes(group.Order().Bytes())
	overflowed := order.Add(order, new(saferith.Nat).SetUint64(1), 300)
	s := group.NewScalar().SetNat(overflowed)
	assert.True(t, s.Equal(group.NewScalar().SetUInt32(1)))
}

func TestXScalar(t *testing.T) {
	group := curve.Secp256k1{}
	assert.Nil(t, group.NewPoint().XScalar())

	P := sample.Scalar(rand.Reader, group).ActOnBase()
	assert.NotNil(t, P.XScalar())
	assert.False(t, P.XScalar().IsZero())
}
