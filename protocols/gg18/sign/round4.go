package sign

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round4 sums the δ shares and opens the Γ commitments.
type round4 struct {
	*round3
	sigma  curve.Scalar
	deltas map[party.ID]curve.Scalar
}

// broadcast5 reveals Γ_i and the blinding of the Phase-1 commitment.
type broadcast5 struct {
	round.ReliableBroadcastContent
	Decommitment *pedersen.PointDecommitment
}

// RoundNumber implements round.Content.
func (broadcast5) RoundNumber() round.Number { return 5 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast4)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Delta == nil {
		return round.ErrNilFields
	}
	r.deltas[msg.From] = body.Delta
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round4) BroadcastContent() round.BroadcastContent {
	return &broadcast4{Delta: r.Group().NewScalar()}
}

// VerifyMessage implements round.Session.
func (r *round4) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round4) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round4) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	// δ = δ_A + δ_B = k·γ
	delta := group.NewScalar()
	for _, d := range r.deltas {
		delta.Add(d)
	}
	if delta.IsZero() {
		// k·γ = 0 only for degenerate nonces; retry with fresh ones
		return r.AbortRound(gg18.ErrRIsZero), nil
	}
	deltaInv := group.NewScalar().Set(delta).Invert()

	if err := r.BroadcastMessage(out, &broadcast5{Decommitment: r.decommitment}); err != nil {
		return nil, err
	}

	return &round5{
		round4:   r,
		deltaInv: deltaInv,
		gammas:   map[party.ID]curve.Point{},
	}, nil
}

// MessageContent implements round.Session.
func (r *round4) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round4) Number() round.Number { return 4 }
