// Package curve abstracts the elliptic-curve group used by the
// protocols. Scalar addition, multiplication and negation use the
// underlying curve library's constant-time scalar type; scalar inversion
// and all point operations use the library's variable-time routines and
// are not constant-time.
package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the starting point for working with an elliptic
// curve group.
type Curve interface {
	// NewPoint returns the identity element of the group.
	NewPoint() Point
	// NewBasePoint returns the generator G.
	NewBasePoint() Point
	// NewScalar returns the zero scalar.
	NewScalar() Scalar
	// Name of the curve, used for domain separation.
	Name() string
	// ScalarBits is the number of significant bits of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes needed to sample a
	// scalar with negligible bias.
	SafeScalarBytes() int
	// Order returns the group order q as a modulus.
	Order() *saferith.Modulus
}

// Scalar is an element of Z_q. Arithmetic methods mutate the receiver
// and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Negate() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	SetUInt32(uint32) Scalar
	// Act returns x • P, leaving the receiver untouched.
	Act(Point) Point
	// ActOnBase returns x • G.
	ActOnBase() Point
}

// Point is a group element. Arithmetic methods return new points.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
	// XScalar returns the affine x-coordinate reduced mod q, as used by
	// ECDSA. It is nil for the identity.
	XScalar() Scalar
}
