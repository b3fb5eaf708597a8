package keygen

import (
	"errors"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round3 verifies every opening against its commitment and every
// received share against the Feldman hidings, then derives the key
// material and proves it well-formed.
type round3 struct {
	*round2
	shares         map[party.ID]curve.Scalar
	vssPolynomials map[party.ID]*polynomial.Exponent
}

// broadcast4 carries the Phase-3 proofs.
type broadcast4 struct {
	round.NormalBroadcastContent
	// SchnorrProof proves knowledge of x_i for X_i.
	SchnorrProof *zk.SchnorrProof
	// ModProof proves the Paillier modulus was generated honestly.
	ModProof *zk.ModProof
}

// RoundNumber implements round.Content.
func (broadcast4) RoundNumber() round.Number { return 4 }

// StoreBroadcastMessage implements round.BroadcastRound.
func (r *round3) StoreBroadcastMessage(msg round.Message) error {
	from := msg.From
	body, ok := msg.Content.(*broadcast3)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Decommitment == nil || body.VSSPolynomial == nil {
		return round.ErrNilFields
	}

	// the opening must match the round-2 commitment
	if !pedersen.VerifyPoint(r.Group(), r.commitments[from], body.Decommitment) {
		return gg18.ErrCommitmentMismatch
	}
	// the hidings must commit to a polynomial of the right degree
	// whose constant term is the decommitted U_i
	if body.VSSPolynomial.Degree() != r.Threshold()-1 {
		return errors.New("keygen: vss polynomial has wrong degree")
	}
	if !body.VSSPolynomial.Constant().Equal(body.Decommitment.Secret) {
		return gg18.ErrCommitmentMismatch
	}

	r.vssPolynomials[from] = body.VSSPolynomial
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round3) BroadcastContent() round.BroadcastContent {
	return &broadcast3{
		Decommitment:  pedersen.EmptyPointDecommitment(r.Group()),
		VSSPolynomial: polynomial.EmptyExponent(r.Group()),
	}
}

// VerifyMessage implements round.Session: the Feldman check
// p_j(x_i)·G = Σ_k x_i^k·A_{j,k}.
func (r *round3) VerifyMessage(msg round.Message) error {
	body, ok := msg.Content.(*message3)
	if !ok {
		return round.ErrInvalidContent
	}
	if body.Share == nil {
		return round.ErrNilFields
	}
	vss, ok := r.vssPolynomials[msg.From]
	if !ok {
		return gg18.ErrMissingBroadcast
	}
	expected := vss.Evaluate(r.SelfID().Scalar(r.Group()))
	if !body.Share.ActOnBase().Equal(expected) {
		return gg18.ErrFeldmanCheckFailed
	}
	return nil
}

// StoreMessage implements round.Session.
func (r *round3) StoreMessage(msg round.Message) error {
	body := msg.Content.(*message3)
	r.shares[msg.From] = body.Share
	return nil
}

// Finalize implements round.Session.
func (r *round3) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	// x_i = Σ_j p_j(x_i)
	secretShare := group.NewScalar()
	for _, share := range r.shares {
		secretShare.Add(share)
	}

	// the summed hidings commit to p(x) = Σ_j p_j(x)
	vssPolynomials := make([]*polynomial.Exponent, 0, len(r.vssPolynomials))
	for _, id := range r.PartyIDs() {
		vssPolynomials = append(vssPolynomials, r.vssPolynomials[id])
	}
	summed, err := polynomial.Sum(vssPolynomials)
	if err != nil {
		return nil, err
	}

	// X_i must agree with the secret share
	publicShare := summed.Evaluate(r.SelfID().Scalar(group))
	if !publicShare.Equal(secretShare.ActOnBase()) {
		return r.AbortRound(gg18.ErrFeldmanCheckFailed), nil
	}

	schnorr := zk.SchnorrProve(r.HashForID(r.SelfID()), r.rand, group, secretShare, publicShare)
	modProof := zk.ModProve(r.HashForID(r.SelfID()), r.paillierSecret)

	err = r.BroadcastMessage(out, &broadcast4{
		SchnorrProof: schnorr,
		ModProof:     modProof,
	})
	if err != nil {
		return nil, err
	}

	return &round4{
		round3:      r,
		secretShare: secretShare,
		summedVSS:   summed,
	}, nil
}

// MessageContent implements round.Session.
func (r *round3) MessageContent() round.Content {
	return &message3{Share: r.Group().NewScalar()}
}

// Number implements round.Session.
func (r *round3) Number() round.Number { return 3 }
