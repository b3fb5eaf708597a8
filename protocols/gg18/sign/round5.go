package sign

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round5 verifies the Γ openings, recovers R = δ⁻¹·Γ and commits to
// the signature share s_i.
type round5 struct {
	*round4
	deltaInv curve.Scalar
	gammas   map[party.ID]curve.Point
}

// broadcast6 is the commitment to s_i.
type broadcast6 struct {
	round.ReliableBroadcastContent
	Commitment curve.Point
}

// RoundNumber implements round.Content.
func (broadcast6) RoundNumber() round.Number { return 6 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round5) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast5)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Decommitment == nil {
		return round.ErrNilFields
	}
	if !pedersen.VerifyPoint(r.Group(), r.commitments[msg.From], body.Decommitment) {
		return gg18.ErrCommitmentMismatch
	}
	r.gammas[msg.From] = body.Decommitment.Secret
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round5) BroadcastContent() round.BroadcastContent {
	return &broadcast5{Decommitment: pedersen.EmptyPointDecommitment(r.Group())}
}

// VerifyMessage implements round.Session.
func (r *round5) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round5) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round5) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	// Γ = Σ Γ_i, our own opening included
	Gamma := r.decommitment.Secret
	for id, g := range r.gammas {
		if id == r.SelfID() {
			continue
		}
		Gamma = Gamma.Add(g)
	}

	// R = δ⁻¹·Γ = k⁻¹·G, r = R.x mod q
	R := r.deltaInv.Act(Gamma)
	rScalar := R.XScalar()
	if rScalar == nil || rScalar.IsZero() {
		return r.AbortRound(gg18.ErrRIsZero), nil
	}

	// s_i = m·k_i + r·σ_i
	sI := group.NewScalar().Set(r.msg).Mul(r.k)
	sI.Add(group.NewScalar().Set(rScalar).Mul(r.sigma))

	commitment, decommitment := pedersen.Commit(r.rand, group, sI)
	if err := r.BroadcastMessage(out, &broadcast6{Commitment: commitment}); err != nil {
		return nil, err
	}

	return &round6{
		round5:         r,
		bigR:           R,
		r:              rScalar,
		sigShare:       sI,
		sigDecommit:    decommitment,
		sigCommitments: map[party.ID]curve.Point{r.SelfID(): commitment},
	}, nil
}

// MessageContent implements round.Session.
func (r *round5) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round5) Number() round.Number { return 5 }
