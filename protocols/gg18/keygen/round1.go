package keygen

import (
	"io"
	"math/big"

	"github.com/luxfi/gg18/internal/params"
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
)

// round1 samples all local secrets: the additive key share u_i with
// its commitment, the sharing polynomial, the Paillier key pair and
// the ring-Pedersen parameters.
type round1 struct {
	*round.Helper
	rand io.Reader
}

// broadcast2 opens the protocol: the hiding commitment to U_i plus the
// auxiliary public keys.
type broadcast2 struct {
	round.ReliableBroadcastContent
	// Commitment hides U_i = u_i·G until every party has committed.
	Commitment curve.Point
	// PaillierN, PaillierG form the party's encryption key E_i.
	PaillierN *big.Int
	PaillierG *big.Int
	// NTilde, H1, H2 are the ring-Pedersen parameters for range proofs
	// addressed to this party.
	NTilde *big.Int
	H1     *big.Int
	H2     *big.Int
}

// RoundNumber implements round.Content.
func (broadcast2) RoundNumber() round.Number { return 2 }

// VerifyMessage implements round.Session.
func (r *round1) VerifyMessage(round.Message) error { return nil }

// StoreMessage implements round.Session.
func (r *round1) StoreMessage(round.Message) error { return nil }

// Finalize implements round.Session.
func (r *round1) Finalize(out chan<- *round.Message) (round.Session, error) {
	group := r.Group()

	// u_i and the degree-(t-1) sharing polynomial p_i, p_i(0) = u_i
	uI := sample.Scalar(r.rand, group)
	poly, err := polynomial.NewPolynomial(r.rand, group, r.Threshold()-1, uI)
	if err != nil {
		return nil, err
	}
	vss := polynomial.NewPolynomialExponent(poly)

	// commit-then-decommit on U_i
	UI := uI.ActOnBase()
	commitment, decommitment := pedersen.CommitPoint(r.rand, group, UI)

	// E_i with N > q⁸, and the range-proof auxiliaries
	paillierSecret, err := paillier.KeyGen(r.rand, params.PaillierBits, paillier.GCalcKNPlusOne, r.Pool())
	if err != nil {
		return nil, err
	}
	ped := zk.GenerateParameters(r.rand, params.PedersenAuxBits, r.Pool())

	err = r.BroadcastMessage(out, &broadcast2{
		Commitment: commitment,
		PaillierN:  paillierSecret.N,
		PaillierG:  paillierSecret.G,
		NTilde:     ped.NTilde,
		H1:         ped.H1,
		H2:         ped.H2,
	})
	if err != nil {
		return nil, err
	}

	return &round2{
		round1:         r,
		poly:           poly,
		vss:            vss,
		decommitment:   decommitment,
		paillierSecret: paillierSecret,
		pedersenLocal:  ped,
		commitments:    map[party.ID]curve.Point{r.SelfID(): commitment},
		paillierPublic: map[party.ID]*paillier.PublicKey{r.SelfID(): &paillierSecret.PublicKey},
		pedersenPublic: map[party.ID]*zk.Parameters{r.SelfID(): ped},
	}, nil
}

// MessageContent implements round.Session.
func (r *round1) MessageContent() round.Content { return nil }

// Number implements round.Session.
func (r *round1) Number() round.Number { return 1 }
