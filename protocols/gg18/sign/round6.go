package sign

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
)

// round6 gathers the s_i commitments and opens its own.
type round6 struct {
	*round5
	bigR        curve.Point
	r           curve.Scalar
	sigShare    curve.Scalar
	sigDecommit *pedersen.Decommitment

	sigCommitments map[party.ID]curve.Point
}

// broadcast7 reveals the signature share s_i.
type broadcast7 struct {
	round.ReliableBroadcastContent
	Decommitment *pedersen.Decommitment
}

// RoundNumber implements round.Content.
func (broadcast7) RoundNumber() round.Number { return 7 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round6) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast6)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Commitment == nil || body.Commitment.IsIdentity() {
		return round.ErrNilFields
	}
	r.sigCommitments[msg.From] = body.Commitment
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round6) BroadcastContent() round.BroadcastContent {
	return &broadcast6{Commitment: r.Group().NewPoint()}
}

// VerifyMessage implements round.Session.
func (r *round6) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round6) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round6) Finalize(out chan<- *round.Message) (round.Session, error) {
	if err := r.BroadcastMessage(out, &broadcast7{Decommitment: r.sigDecommit}); err != nil {
		return nil, err
	}
	return &round7{
		round6:    r,
		sigShares: map[party.ID]curve.Scalar{r.SelfID(): r.sigShare},
	}, nil
}

// MessageContent implements round.Session.
func (r *round6) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round6) Number() round.Number { return 6 }
