// Package polynomial implements polynomials over Z_q and their group
// images, the building blocks of Feldman verifiable secret sharing.
package polynomial

import (
	"errors"
	"io"

	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
)

// Polynomial is a polynomial over Z_q, stored by its coefficients in
// ascending degree order. The constant term is the shared secret.
type Polynomial struct {
	group        curve.Curve
	coefficients []curve.Scalar
}

// NewPolynomial samples a polynomial of the given degree with the given
// constant term. Sharing with threshold t uses degree t-1; degree 0 is
// rejected since a constant polynomial shares nothing.
func NewPolynomial(rd io.Reader, group curve.Curve, degree int, constant curve.Scalar) (*Polynomial, error) {
	if degree < 1 {
		return nil, errors.New("polynomial: degree must be at least 1")
	}
	if constant == nil {
		constant = group.NewScalar()
	}
	coefficients := make([]curve.Scalar, degree+1)
	coefficients[0] = group.NewScalar().Set(constant)
	for i := 1; i <= degree; i++ {
		coefficients[i] = sample.Scalar(rd, group)
	}
	return &Polynomial{group: group, coefficients: coefficients}, nil
}

// Evaluate returns p(x) computed by Horner's rule. Evaluation at 0 is
// rejected: it would reveal the secret as a share.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	if x.IsZero() {
		panic("polynomial: attempt to evaluate at 0")
	}
	result := p.group.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Constant returns a copy of the constant term.
func (p *Polynomial) Constant() curve.Scalar {
	return p.group.NewScalar().Set(p.coefficients[0])
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }
