package polynomial

import (
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
)

// Lagrange returns the Lagrange basis coefficients at 0 for the given
// interpolation points: l_j(0) = Π_{m ≠ j} x_m / (x_m − x_j). A share
// y_j = p(x_j) contributes l_j(0)·y_j to the secret p(0).
//
// All evaluation points must be distinct; duplicates are a fatal
// misconfiguration and panic.
func Lagrange(group curve.Curve, ids party.IDSlice) map[party.ID]curve.Scalar {
	points := make(map[party.ID]curve.Scalar, len(ids))
	for _, id := range ids {
		points[id] = id.Scalar(group)
	}
	coefficients := make(map[party.ID]curve.Scalar, len(ids))
	for _, j := range ids {
		xJ := points[j]
		numerator := group.NewScalar().SetUInt32(1)
		denominator := group.NewScalar().SetUInt32(1)
		for _, m := range ids {
			if m == j {
				continue
			}
			xM := points[m]
			numerator.Mul(xM)
			diff := group.NewScalar().Set(xM).Sub(xJ)
			if diff.IsZero() {
				panic("polynomial: duplicate evaluation points")
			}
			denominator.Mul(diff)
		}
		coefficients[j] = numerator.Mul(denominator.Invert())
	}
	return coefficients
}

// InterpolateConstant recovers p(0) from the given shares using the
// Lagrange basis at 0. The share map must contain at least threshold
// entries with distinct evaluation points.
func InterpolateConstant(group curve.Curve, shares map[party.ID]curve.Scalar) curve.Scalar {
	ids := make([]party.ID, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	coefficients := Lagrange(group, party.NewIDSlice(ids))
	secret := group.NewScalar()
	for id, share := range shares {
		term := group.NewScalar().Set(share).Mul(coefficients[id])
		secret.Add(term)
	}
	return secret
}
