package curve

import (
	"errors"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var secp256k1Order *saferith.Modulus

func init() {
	secp256k1Order = saferith.ModulusFromBytes(secp256k1.S256().N.Bytes())
}

// Secp256k1 implements Curve for the secp256k1 group.
type Secp256k1 struct{}

// NewPoint implements Curve.
func (Secp256k1) NewPoint() Point { return new(secp256k1Point) }

// NewBasePoint implements Curve.
func (Secp256k1) NewBasePoint() Point {
	p := new(secp256k1Point)
	one := new(secp256k1.ModNScalar).SetInt(1)
	secp256k1.ScalarBaseMultNonConst(one, &p.p)
	p.p.ToAffine()
	return p
}

// NewScalar implements Curve.
func (Secp256k1) NewScalar() Scalar { return new(secp256k1Scalar) }

// Name implements Curve.
func (Secp256k1) Name() string { return "secp256k1" }

// ScalarBits implements Curve.
func (Secp256k1) ScalarBits() int { return 256 }

// SafeScalarBytes implements Curve.
func (Secp256k1) SafeScalarBytes() int { return 32 }

// Order implements Curve.
func (Secp256k1) Order() *saferith.Modulus { return secp256k1Order }

type secp256k1Scalar struct {
	s secp256k1.ModNScalar
}

func secp256k1CastScalar(generic Scalar) *secp256k1Scalar {
	out, ok := generic.(*secp256k1Scalar)
	if !ok {
		panic("curve: expected secp256k1 scalar")
	}
	return out
}

func (*secp256k1Scalar) Curve() Curve { return Secp256k1{} }

func (s *secp256k1Scalar) MarshalBinary() ([]byte, error) {
	data := s.s.Bytes()
	return data[:], nil
}

func (s *secp256k1Scalar) UnmarshalBinary(data []byte) error {
	if len(data) != 32 {
		return errors.New("curve: invalid scalar length")
	}
	var buf [32]byte
	copy(buf[:], data)
	if s.s.SetBytes(&buf) != 0 {
		return errors.New("curve: scalar out of range")
	}
	return nil
}

func (s *secp256k1Scalar) Add(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.s.Add(&other.s)
	return s
}

func (s *secp256k1Scalar) Sub(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	negated := new(secp256k1.ModNScalar).Set(&other.s)
	negated.Negate()
	s.s.Add(negated)
	return s
}

func (s *secp256k1Scalar) Mul(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.s.Mul(&other.s)
	return s
}

func (s *secp256k1Scalar) Invert() Scalar {
	s.s.InverseNonConst()
	return s
}

func (s *secp256k1Scalar) Negate() Scalar {
	s.s.Negate()
	return s
}

func (s *secp256k1Scalar) Equal(that Scalar) bool {
	other := secp256k1CastScalar(that)
	return s.s.Equals(&other.s)
}

func (s *secp256k1Scalar) IsZero() bool { return s.s.IsZero() }

func (s *secp256k1Scalar) Set(that Scalar) Scalar {
	other := secp256k1CastScalar(that)
	s.s.Set(&other.s)
	return s
}

func (s *secp256k1Scalar) SetNat(x *saferith.Nat) Scalar {
	reduced := new(saferith.Nat).Mod(x, secp256k1Order)
	b := reduced.Bytes()
	var arr [32]byte
	copy(arr[32-len(b):], b)
	s.s.SetBytes(&arr)
	return s
}

func (s *secp256k1Scalar) SetUInt32(i uint32) Scalar {
	s.s.SetInt(i)
	return s
}

func (s *secp256k1Scalar) Act(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(secp256k1Point)
	secp256k1.ScalarMultNonConst(&s.s, &other.p, &out.p)
	out.toAffine()
	return out
}

func (s *secp256k1Scalar) ActOnBase() Point {
	out := new(secp256k1Point)
	secp256k1.ScalarBaseMultNonConst(&s.s, &out.p)
	out.toAffine()
	return out
}

type secp256k1Point struct {
	p secp256k1.JacobianPoint
}

func secp256k1CastPoint(generic Point) *secp256k1Point {
	out, ok := generic.(*secp256k1Point)
	if !ok {
		panic("curve: expected secp256k1 point")
	}
	return out
}

func (*secp256k1Point) Curve() Curve { return Secp256k1{} }

// MarshalBinary returns the 33-byte compressed encoding; the identity
// encodes as 33 zero bytes.
func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, 33)
	if p.IsIdentity() {
		return out, nil
	}
	p.toAffine()
	format := byte(0x02)
	if p.p.Y.IsOdd() {
		format = 0x03
	}
	out[0] = format
	p.p.X.PutBytesUnchecked(out[1:])
	return out, nil
}

func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	if len(data) != 33 {
		return errors.New("curve: invalid point length")
	}
	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		p.p = secp256k1.JacobianPoint{}
		return nil
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return errors.New("curve: point not on curve")
	}
	pub.AsJacobian(&p.p)
	return nil
}

func (p *secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)
	out := new(secp256k1Point)
	secp256k1.AddNonConst(&p.p, &other.p, &out.p)
	out.toAffine()
	return out
}

func (p *secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *secp256k1Point) Negate() Point {
	out := new(secp256k1Point)
	out.p.Set(&p.p)
	if !out.IsIdentity() {
		out.p.Y.Negate(1)
		out.p.Y.Normalize()
	}
	return out
}

func (p *secp256k1Point) Equal(that Point) bool {
	other := secp256k1CastPoint(that)
	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() && other.IsIdentity()
	}
	a, b := new(secp256k1Point), new(secp256k1Point)
	a.p.Set(&p.p)
	b.p.Set(&other.p)
	a.toAffine()
	b.toAffine()
	return a.p.X.Equals(&b.p.X) && a.p.Y.Equals(&b.p.Y)
}

func (p *secp256k1Point) IsIdentity() bool {
	return (p.p.X.IsZero() && p.p.Y.IsZero()) || p.p.Z.IsZero()
}

func (p *secp256k1Point) XScalar() Scalar {
	if p.IsIdentity() {
		return nil
	}
	p.toAffine()
	var xBytes [32]byte
	p.p.X.PutBytesUnchecked(xBytes[:])
	out := new(secp256k1Scalar)
	// reduces mod q, as ECDSA requires
	out.s.SetByteSlice(xBytes[:])
	return out
}

func (p *secp256k1Point) toAffine() {
	if !p.IsIdentity() {
		p.p.ToAffine()
	}
}
