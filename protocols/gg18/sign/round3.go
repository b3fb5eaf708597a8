package sign

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/mta"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round3 closes this party's initiator-side MtA conversions and
// publishes δ_i.
type round3 struct {
	*round2
	betaGamma curve.Scalar
	betaOmega curve.Scalar

	peerResponse *message3
}

// broadcast4 carries δ_i = k_i·γ_i + α_i,γ + β_i,γ.
type broadcast4 struct {
	round.NormalBroadcastContent
	Delta curve.Scalar
}

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// VerifyMessage implements round.Session.
func (r *round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.CGamma == nil || body.ProofGamma == nil || body.COmega == nil || body.ProofOmega == nil {
		return round.ErrNilFields
	}
	return nil
}

// StoreMessage implements round.Session.
func (r *round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message3)
	r.peerResponse = body
	return nil
}

// BroadcastContent implements round.BroadcastRound: round3 only
// expects the directed MtA responses.
func (r *round3) BroadcastContent() round.BroadcastContent { return nil }

// Finalize implements round.Session.
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	other := otherID(r.Helper)
	transcript := r.HashForID(r.SelfID())

	alphaGamma, err := mta.ReceiveShare(transcript, group, r.cfg.Paillier, r.cfg.Pedersen, r.cA,
		&mta.ResponderMessage{C: r.peerResponse.CGamma, Proof: r.peerResponse.ProofGamma})
	if err != nil {
		return r.AbortRound(gg18.ErrRangeProofInvalid, other), nil
	}
	alphaOmega, err := mta.ReceiveShare(transcript, group, r.cfg.Paillier, r.cfg.Pedersen, r.cA,
		&mta.ResponderMessage{C: r.peerResponse.COmega, Proof: r.peerResponse.ProofOmega})
	if err != nil {
		return r.AbortRound(gg18.ErrRangeProofInvalid, other), nil
	}

	// δ_i = k_i·γ_i + α_γ + β_γ and σ_i = k_i·ω_i + α_ω + β_ω
	deltaI := group.NewScalar().Set(r.k).Mul(r.gamma).Add(alphaGamma).Add(r.betaGamma)
	sigmaI := group.NewScalar().Set(r.k).Mul(r.omega).Add(alphaOmega).Add(r.betaOmega)

	if err := r.BroadcastMessage(out, &broadcast4{Delta: deltaI}); err != nil {
		return nil, err
	}

	return &round4{
		round3: r,
		sigma:  sigmaI,
		deltas: map[party.ID]curve.Scalar{r.SelfID(): deltaI},
	}, nil
}

// MessageContent implements round.Session.
func (r *round3) MessageContent() round.Content {
	return &message3{}
}

// Number implements round.Session.
func (r *round3) Number() round.Number { return 3 }
