// Package pedersen implements Pedersen commitments C = s·G + r·H on
// the protocol curve.
//
// The second generator H is a nothing-up-my-sleeve point derived by
// iterated hashing of the serialized base point, so that no party can
// know dlog_G(H). Commitments are perfectly hiding and computationally
// binding under the discrete-log assumption.
package pedersen

import (
	"io"
	"sync"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
)

var (
	hOnce  sync.Once
	hPoint curve.Point
)

// H returns the second generator for the given group.
func H(group curve.Curve) curve.Point {
	hOnce.Do(func() { hPoint = deriveH(group) })
	return hPoint
}

func deriveH(group curve.Curve) curve.Point {
	base, err := group.NewBasePoint().MarshalBinary()
	if err != nil {
		panic("pedersen: base point does not marshal")
	}
	seed := hash.New(&hash.BytesWithDomain{
		TheDomain: "Pedersen-H",
		Bytes:     base,
	}).Sum()

	candidate := make([]byte, 33)
	for {
		candidate[0] = 0x02
		copy(candidate[1:], seed)
		p := group.NewPoint()
		if err := p.UnmarshalBinary(candidate); err == nil {
			return p
		}
		seed = hash.New(&hash.BytesWithDomain{
			TheDomain: "Pedersen-H",
			Bytes:     seed,
		}).Sum()
	}
}

// Decommitment opens a commitment.
type Decommitment struct {
	Secret   curve.Scalar
	Blinding curve.Scalar
}

// EmptyDecommitment returns a Decommitment ready to be unmarshalled
// into.
func EmptyDecommitment(group curve.Curve) *Decommitment {
	return &Decommitment{
		Secret:   group.NewScalar(),
		Blinding: group.NewScalar(),
	}
}

// Commit commits to the scalar s with a fresh blinding factor.
func Commit(rd io.Reader, group curve.Curve, s curve.Scalar) (curve.Point, *Decommitment) {
	blinding := sample.Scalar(rd, group)
	d := &Decommitment{
		Secret:   group.NewScalar().Set(s),
		Blinding: blinding,
	}
	return commitment(group, d), d
}

// Verify reports whether d opens c.
func Verify(group curve.Curve, c curve.Point, d *Decommitment) bool {
	if c == nil || d == nil || d.Secret == nil || d.Blinding == nil {
		return false
	}
	return commitment(group, d).Equal(c)
}

func commitment(group curve.Curve, d *Decommitment) curve.Point {
	sG := d.Secret.ActOnBase()
	rH := group.NewScalar().Set(d.Blinding).Act(H(group))
	return sG.Add(rH)
}

// PointDecommitment opens a commitment to a group element.
type PointDecommitment struct {
	Secret   curve.Point
	Blinding curve.Scalar
}

// EmptyPointDecommitment returns a PointDecommitment ready to be
// unmarshalled into.
func EmptyPointDecommitment(group curve.Curve) *PointDecommitment {
	return &PointDecommitment{
		Secret:   group.NewPoint(),
		Blinding: group.NewScalar(),
	}
}

// CommitPoint commits to the group element S: C = S + r·H. Used where
// the protocol must hide a public share until every party has
// committed, without revealing its discrete log on opening.
func CommitPoint(rd io.Reader, group curve.Curve, S curve.Point) (curve.Point, *PointDecommitment) {
	blinding := sample.Scalar(rd, group)
	d := &PointDecommitment{Secret: S, Blinding: blinding}
	return pointCommitment(group, d), d
}

// VerifyPoint reports whether d opens c.
func VerifyPoint(group curve.Curve, c curve.Point, d *PointDecommitment) bool {
	if c == nil || d == nil || d.Secret == nil || d.Blinding == nil {
		return false
	}
	return pointCommitment(group, d).Equal(c)
}

func pointCommitment(group curve.Curve, d *PointDecommitment) curve.Point {
	rH := group.NewScalar().Set(d.Blinding).Act(H(group))
	return d.Secret.Add(rH)
}
