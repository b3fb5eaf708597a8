package zk

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
)

// SchnorrProof is a Fiat-Shamir proof of knowledge of x with X = x·G.
type SchnorrProof struct {
	// C is the prover's commitment α·G.
	C curve.Point
	// Z is the response α + e·x.
	Z curve.Scalar
}

// EmptySchnorrProof returns a proof ready to be unmarshalled into.
func EmptySchnorrProof(group curve.Curve) *SchnorrProof {
	return &SchnorrProof{C: group.NewPoint(), Z: group.NewScalar()}
}

// SchnorrProve proves knowledge of x for the public point X = x·G. The
// hash state carries the session transcript for domain separation.
func SchnorrProve(h *hash.Hash, rd io.Reader, group curve.Curve, x curve.Scalar, X curve.Point) *SchnorrProof {
	alpha := sample.Scalar(rd, group)
	C := alpha.ActOnBase()
	e := schnorrChallenge(h, group, X, C)
	z := group.NewScalar().Set(e).Mul(x).Add(alpha)
	return &SchnorrProof{C: C, Z: z}
}

// Verify checks the proof against X.
func (p *SchnorrProof) Verify(h *hash.Hash, group curve.Curve, X curve.Point) bool {
	if p == nil || p.C == nil || p.Z == nil {
		return false
	}
	if X.IsIdentity() || p.C.IsIdentity() || p.Z.IsZero() {
		return false
	}
	e := schnorrChallenge(h, group, X, p.C)
	lhs := p.Z.ActOnBase()
	rhs := group.NewScalar().Set(e).Act(X).Add(p.C)
	return lhs.Equal(rhs)
}

func schnorrChallenge(h *hash.Hash, group curve.Curve, X, C curve.Point) curve.Scalar {
	state := h.Fork()
	_ = state.WriteAny(&hash.BytesWithDomain{TheDomain: "Schnorr", Bytes: nil}, X, C)
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(state.Sum()))
}
