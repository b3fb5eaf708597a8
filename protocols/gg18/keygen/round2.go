package keygen

import (
	"errors"
	"math/big"

	"github.com/luxfi/gg18/internal/params"
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18"
)

// round2 gathers every party's commitment and auxiliary keys, rejects
// duplicate moduli, then opens its own commitment and deals the Shamir
// shares.
type round2 struct {
	*round1

	poly           *polynomial.Polynomial
	vss            *polynomial.Exponent
	decommitment   *pedersen.PointDecommitment
	paillierSecret *paillier.SecretKey
	pedersenLocal  *zk.Parameters

	commitments    map[party.ID]curve.Point
	paillierPublic map[party.ID]*paillier.PublicKey
	pedersenPublic map[party.ID]*zk.Parameters
}

// broadcast3 opens the commitment and publishes the coefficient
// hidings.
type broadcast3 struct {
	round.ReliableBroadcastContent
	// Decommitment reveals U_i and the blinding factor of the round-2
	// commitment.
	Decommitment *pedersen.PointDecommitment
	// VSSPolynomial carries the Feldman coefficient hidings; its
	// constant term must equal the decommitted U_i.
	VSSPolynomial *polynomial.Exponent
}

// message3 is the Shamir share p_i(x_j), sent only to party j.
type message3 struct {
	Share curve.Scalar
}

// RoundNumber implements round.Content.
func (broadcast3) RoundNumber() round.Number { return 3 }

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
	if body.PaillierN == nil || body.PaillierG == nil || body.NTilde == nil || body.H1 == nil || body.H2 == nil {
		return round.ErrNilFields
	}

	pk := &paillier.PublicKey{N: body.PaillierN, G: body.PaillierG}
	if err := pk.ValidateForOrder(orderBig(r.Group())); err != nil {
		return err
	}
	ped := &zk.Parameters{NTilde: body.NTilde, H1: body.H1, H2: body.H2}
	if err := ped.Validate(); err != nil {
		return err
	}
	if ped.NTilde.BitLen() < params.PedersenAuxBits-1 {
		return errors.New("keygen: ring-Pedersen modulus too small")
	}

	r.commitments[msg.From] = body.Commitment
	r.paillierPublic[msg.From] = pk
	r.pedersenPublic[msg.From] = ped
	return nil
}

// BroadcastContent implements round.BroadcastRound.
func (r *round2) BroadcastContent() round.BroadcastContent {
	return &broadcast2{Commitment: r.Group().NewPoint()}
}

// VerifyMessage implements round.Session.
func (r *round2) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round2) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round2) Finalize(out chan<- *round.Message) (round.Session, error) {
	// Duplicate Paillier or ring-Pedersen moduli across parties break
	// the security argument; abort outright.
	if err := r.assertDistinctModuli(); err != nil {
		return r.AbortRound(err), nil
	}

	// open the commitment and publish the coefficient hidings
	err := r.BroadcastMessage(out, &broadcast3{
		Decommitment:  r.decommitment,
		VSSPolynomial: r.vss,
	})
	if err != nil {
		return nil, err
	}

	// deal p_i(x_j) to every other party
	for _, j := range r.OtherPartyIDs() {
		share := r.poly.Evaluate(j.Scalar(r.Group()))
		if err := r.SendMessage(out, &message3{Share: share}, j); err != nil {
			return nil, err
		}
	}

	selfShare := r.poly.Evaluate(r.SelfID().Scalar(r.Group()))
	return &round3{
		round2:         r,
		shares:         map[party.ID]curve.Scalar{r.SelfID(): selfShare},
		vssPolynomials: map[party.ID]*polynomial.Exponent{r.SelfID(): r.vss},
	}, nil
}

// MessageContent implements round.Session.
func (r *round2) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round2) Number() round.Number { return 2 }

func (r *round2) assertDistinctModuli() error {
	ids := r.PartyIDs()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if r.paillierPublic[ids[i]].N.Cmp(r.paillierPublic[ids[j]].N) == 0 {
				return gg18.ErrDuplicatePaillierModulus
			}
			if r.pedersenPublic[ids[i]].NTilde.Cmp(r.pedersenPublic[ids[j]].NTilde) == 0 {
				return gg18.ErrDuplicatePaillierModulus
			}
		}
	}
	return nil
}

func orderBig(group curve.Curve) *big.Int {
	return new(big.Int).SetBytes(group.Order().Bytes())
}
