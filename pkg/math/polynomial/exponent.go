package polynomial

import (
	"encoding/binary"
	"errors"

	"github.com/luxfi/gg18/pkg/math/curve"
)

// Exponent is the group image of a Polynomial: the coefficient hidings
// A_k = a_k • G, in ascending degree order. It lets any party verify a
// share against the committed polynomial without learning it.
type Exponent struct {
	group        curve.Curve
	coefficients []curve.Point
}

// NewPolynomialExponent commits to every coefficient of p.
func NewPolynomialExponent(p *Polynomial) *Exponent {
	coefficients := make([]curve.Point, len(p.coefficients))
	for i, c := range p.coefficients {
		coefficients[i] = c.ActOnBase()
	}
	return &Exponent{group: p.group, coefficients: coefficients}
}

// EmptyExponent returns an Exponent ready to be unmarshalled into.
func EmptyExponent(group curve.Curve) *Exponent {
	return &Exponent{group: group}
}

// Evaluate returns the hiding of p(x): Σ_k x^k • A_k.
func (e *Exponent) Evaluate(x curve.Scalar) curve.Point {
	result := e.group.NewPoint()
	for i := len(e.coefficients) - 1; i >= 0; i-- {
		result = x.Act(result).Add(e.coefficients[i])
	}
	return result
}

// Constant returns the hiding of the constant term.
func (e *Exponent) Constant() curve.Point { return e.coefficients[0] }

// Degree returns the degree of the committed polynomial.
func (e *Exponent) Degree() int { return len(e.coefficients) - 1 }

// Add sets e to the coefficient-wise sum e + other. Both summands must
// have the same degree.
func (e *Exponent) Add(other *Exponent) error {
	if len(e.coefficients) != len(other.coefficients) {
		return errors.New("polynomial: mismatched degrees")
	}
	for i := range e.coefficients {
		e.coefficients[i] = e.coefficients[i].Add(other.coefficients[i])
	}
	return nil
}

// Sum returns the coefficient-wise sum of the given exponents.
func Sum(exponents []*Exponent) (*Exponent, error) {
	if len(exponents) == 0 {
		return nil, errors.New("polynomial: empty sum")
	}
	sum := exponents[0].copy()
	for _, e := range exponents[1:] {
		if err := sum.Add(e); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func (e *Exponent) copy() *Exponent {
	out := &Exponent{group: e.group, coefficients: make([]curve.Point, len(e.coefficients))}
	copy(out.coefficients, e.coefficients)
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e *Exponent) MarshalBinary() ([]byte, error) {
	out := make([]byte, 4, 4+33*len(e.coefficients))
	binary.BigEndian.PutUint32(out, uint32(len(e.coefficients)))
	for _, c := range e.coefficients {
		data, err := c.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The receiver
// must have been created with EmptyExponent so the group is known.
func (e *Exponent) UnmarshalBinary(data []byte) error {
	if e.group == nil {
		return errors.New("polynomial: group not set")
	}
	if len(data) < 4 {
		return errors.New("polynomial: truncated exponent")
	}
	count := binary.BigEndian.Uint32(data)
	data = data[4:]
	point := e.group.NewPoint()
	size, err := point.MarshalBinary()
	if err != nil {
		return err
	}
	if len(data) != int(count)*len(size) {
		return errors.New("polynomial: truncated exponent")
	}
	e.coefficients = make([]curve.Point, count)
	for i := range e.coefficients {
		p := e.group.NewPoint()
		if err := p.UnmarshalBinary(data[:len(size)]); err != nil {
			return err
		}
		e.coefficients[i] = p
		data = data[len(size):]
	}
	return nil
}
