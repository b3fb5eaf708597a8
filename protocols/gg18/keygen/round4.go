package keygen

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18"
	"github.com/luxfi/gg18/protocols/gg18/config"
)

// round4 verifies the Phase-3 proofs of every party and assembles the
// key shard.
type round4 struct {
	*round3
	secretShare curve.Scalar
	summedVSS   *polynomial.Exponent
}

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round4) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast4)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.SchnorrProof == nil || body.ModProof == nil {
		return round.ErrNilFields
	}

	publicShare := r.summedVSS.Evaluate(from.Scalar(r.Group()))
	if !body.SchnorrProof.Verify(r.HashForID(from), r.Group(), publicShare) {
		return gg18.ErrZkProofFailed
	}
	if !body.ModProof.Verify(r.HashForID(from), r.paillierPublic[from]) {
		return gg18.ErrZkProofFailed
	}
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round4) BroadcastContent() round.BroadcastContent {
	return &broadcast4{SchnorrProof: zk.EmptySchnorrProof(r.Group())}
}

// VerifyMessage implements round.Session.
func (r *round4) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round4) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round4) Finalize(chan<- *round.Message) (round.Session, error) {
	public := make(map[party.ID]*config.Public, r.N())
	for _, id := range r.PartyIDs() {
		public[id] = &config.Public{
			ECDSA:    r.summedVSS.Evaluate(id.Scalar(r.Group())),
			Paillier: r.paillierPublic[id],
			Pedersen: r.pedersenPublic[id],
		}
	}

	cfg := &config.Config{
		ID:        r.SelfID(),
		Group:     r.Group(),
		Threshold: r.Threshold(),
		ECDSA:     r.secretShare,
		PublicKey: r.summedVSS.Constant(),
		Paillier:  r.paillierSecret,
		Pedersen:  r.pedersenLocal,
		Public:    public,
		PartyIDs:  r.PartyIDs(),
	}
	if err := cfg.Validate(); err != nil {
		return r.AbortRound(err), nil
	}
	return r.ResultRound(cfg), nil
}

// MessageContent implements round.Session.
func (r *round4) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round4) Number() round.Number { return 4 }
