package sign

import (
	"errors"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/ecdsa"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round7 verifies the s_i openings, assembles s = Σ s_i and checks the
// final signature before outputting it.
type round7 struct {
	*round6
	sigShares map[party.ID]curve.Scalar
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round7) StoreBroadcastMessage(msg round.Message) error {
	body, ok := msg.Content.(*broadcast7)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Decommitment == nil {
		return round.ErrNilFields
	}
	if !pedersen.Verify(r.Group(), r.sigCommitments[msg.From], body.Decommitment) {
		return gg18.ErrCommitmentMismatch
	}
	r.sigShares[msg.From] = body.Decommitment.Secret
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round7) BroadcastContent() round.BroadcastContent {
	return &broadcast7{Decommitment: pedersen.EmptyDecommitment(r.Group())}
}

// VerifyMessage implements round.Session.
func (r *round7) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round7) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round7) Finalize(chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	s := group.NewScalar()
	for _, share := range r.sigShares {
		s.Add(share)
	}
	if s.IsZero() {
		return r.AbortRound(gg18.ErrSIsZero), nil
	}

	sig := ecdsa.Signature{R: r.bigR, S: s}
	if !sig.Verify(r.cfg.PublicKey, r.msg) {
		// a share that opened correctly but sums to an invalid
		// signature means some party used inconsistent inputs
		return r.AbortRound(errors.New("sign: assembled signature does not verify")), nil
	}
	return r.ResultRound(sig), nil
}

// MessageContent implements round.Session.
func (r *round7) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round7) Number() round.Number { return 7 }
