package sign

import (
	"io"
	"math/big"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/mta"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18/config"
)

// round1 samples the nonce share k_i and the blinding share γ_i,
// commits to Γ_i = γ_i·G, and opens the two MtA conversions in which
// this party is the initiator with a = k_i. A single ciphertext
// Enc(k_i) serves both the γ and the ω instance.
type round1 struct {
	*round.Helper
	rand  io.Reader
	cfg   *config.Config
	omega curve.Scalar
	msg   curve.Scalar
}

// broadcast2 is the Phase-1 commitment C_i to Γ_i.
type broadcast2 struct {
	round.ReliableBroadcastContent
	Commitment curve.Point
}

// message2 opens the MtA conversions: Enc(k_i) with the range proof
// a < q³ under the receiver's ring-Pedersen parameters.
type message2 struct {
	CA    *big.Int
	Proof *zk.RangeProofAlice
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// RoundNumber implements round.Content.
func (message2) RoundNumber() round.Number { return 2 }

// VerifyMessage implements round.Session.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()
	other := otherID(r.Helper)

	kI := sample.Scalar(r.rand, group)
	gammaI := sample.Scalar(r.rand, group)

	GammaI := gammaI.ActOnBase()
	commitment, decommitment := pedersen.CommitPoint(r.rand, group, GammaI)

	if err := r.BroadcastMessage(out, &broadcast2{Commitment: commitment}); err != nil {
		return nil, err
	}

	// initiate MtA with a = k_i; the proof is addressed to the peer
	initMsg, err := mta.InitiateShare(
		r.HashForID(r.SelfID()),
		r.rand,
		group,
		r.cfg.Paillier,
		r.cfg.Public[other].Pedersen,
		kI,
	)
	if err != nil {
		return nil, err
	}
	if err := r.SendMessage(out, &message2{CA: initMsg.C, Proof: initMsg.Proof}, other); err != nil {
		return nil, err
	}

	return &round2{
		round1:       r,
		k:            kI,
		gamma:        gammaI,
		decommitment: decommitment,
		cA:           initMsg.C,
		commitments:  map[party.ID]curve.Point{r.SelfID(): commitment},
	}, nil
}

// MessageContent implements round.Session.
func (r *round1) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round1) Number() round.Number { return 1 }
