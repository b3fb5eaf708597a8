package sign

import (
	"math/big"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/mta"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round2 stores the peer's commitment and answers its MtA initiation
// twice: once with b = γ_i and once with b = ω_i.
type round2 struct {
	*round1
	k            curve.Scalar
	gamma        curve.Scalar
	decommitment *pedersen.PointDecommitment
	cA           *big.Int

	commitments map[party.ID]curve.Point
	peerInit    *mta.InitiatorMessage
}

// message3 answers both MtA instances.
type message3 struct {
	CGamma     *big.Int
	ProofGamma *zk.RangeProofBob
	COmega     *big.Int
	ProofOmega *zk.RangeProofBob
}

// RoundNumber implements round.Content.
func (message3) RoundNumber() round.Number { return 3 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round2) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast2)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Commitment == nil || body.Commitment.IsIdentity() {
		return round.ErrNilFields
	}
	r.commitments[msg.From] = body.Commitment
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round2) BroadcastContent() round.BroadcastContent {
	return &broadcast2{Commitment: r.Group().NewPoint()}
}

// VerifyMessage implements round.Session.
func (r *round2) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message2)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.CA == nil || body.Proof == nil {
		return round.ErrNilFields
	}
	return nil
}

// StoreMessage implements round.Session.
func (r *round2) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message2)
	r.peerInit = &mta.InitiatorMessage{C: body.CA, Proof: body.Proof}
	return nil
}

// Finalize implements round.Session.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	other := otherID(r.Helper)
	peerPaillier := r.cfg.Public[other].Paillier
	peerPedersen := r.cfg.Public[other].Pedersen
	transcript := r.HashForID(other)

	// respond to k_other · γ_self
	betaGamma, respGamma, err := mta.RespondShare(
		transcript, r.rand, group, peerPaillier, r.cfg.Pedersen, peerPedersen, r.peerInit, r.gamma)
	if err != nil {
		return r.AbortRound(gg18.ErrRangeProofInvalid, other), nil
	}
	// respond to k_other · ω_self
	betaOmega, respOmega, err := mta.RespondShare(
		transcript, r.rand, group, peerPaillier, r.cfg.Pedersen, peerPedersen, r.peerInit, r.omega)
	if err != nil {
		return r.AbortRound(gg18.ErrRangeProofInvalid, other), nil
	}

	err = r.SendMessage(out, &message3{
		CGamma:     respGamma.C,
		ProofGamma: respGamma.Proof,
		COmega:     respOmega.C,
		ProofOmega: respOmega.Proof,
	}, other)
	if err != nil {
		return nil, err
	}

	return &round3{
		round2:    r,
		betaGamma: betaGamma,
		betaOmega: betaOmega,
	}, nil
}

// MessageContent implements round.Session.
func (r *round2) MessageContent() round.Content { return &message2{} }

// Number implements round.Session.
func (r *round2) Number() round.Number { return 2 }
