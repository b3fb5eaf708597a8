package keygen

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18"
)

func testRound3(t *testing.T) (*round3, *polynomial.Polynomial, *pedersen.PointDecommitment, curve.Point) {
	t.Helper()
	group := curve.Secp256k1{}
	helper, err := round.NewSession(round.Info{
		ProtocolID:       protocolID,
		FinalRoundNumber: Rounds,
		SelfID:           "a",
		PartyIDs:         []party.ID{"a", "b"},
		Threshold:        2,
		Group:            group,
	}, nil, nil)
	require.NoError(t, err)

	// the peer's honest sharing of u_b
	uB := sample.Scalar(rand.Reader, group)
	poly, err := polynomial.NewPolynomial(rand.Reader, group, 1, uB)
	require.NoError(t, err)
	UB := uB.ActOnBase()
	commitment, decommitment := pedersen.CommitPoint(rand.Reader, group, UB)

	r1 := &round1{Helper: helper, rand: rand.Reader}
	r2 := &round2{
		round1:      r1,
		commitments: map[party.ID]curve.Point{"b": commitment},
	}
	r3 := &round3{
		round2:         r2,
		shares:         map[party.ID]curve.Scalar{},
		vssPolynomials: map[party.ID]*polynomial.Exponent{},
	}
	return r3, poly, decommitment, commitment
}

func TestRound3AcceptsHonestBroadcast(t *testing.T) {
	r3, poly, decommitment, _ := testRound3(t)
	err := r3.StoreBroadcastMessage(round.Message{
		From: "b",
		Content: &broadcast3{
			Decommitment:  decommitment,
			VSSPolynomial: polynomial.NewPolynomialExponent(poly),
		},
	})
	assert.NoError(t, err)
}

func TestRound3DetectsCommitmentMismatch(t *testing.T) {
	r3, poly, decommitment, _ := testRound3(t)
	group := curve.Secp256k1{}

	forged := &pedersen.PointDecommitment{
		Secret:   sample.Scalar(rand.Reader, group).ActOnBase(),
		Blinding: decommitment.Blinding,
	}
	err := r3.StoreBroadcastMessage(round.Message{
		From: "b",
		Content: &broadcast3{
			Decommitment:  forged,
			VSSPolynomial: polynomial.NewPolynomialExponent(poly),
		},
	})
	assert.ErrorIs(t, err, gg18.ErrCommitmentMismatch)
}

func TestRound3DetectsInconsistentConstant(t *testing.T) {
	r3, _, decommitment, _ := testRound3(t)
	group := curve.Secp256k1{}

	// hidings of a different polynomial than the committed U_b
	other, err := polynomial.NewPolynomial(rand.Reader, group, 1, sample.Scalar(rand.Reader, group))
	require.NoError(t, err)
	err = r3.StoreBroadcastMessage(round.Message{
		From: "b",
		Content: &broadcast3{
			Decommitment:  decommitment,
			VSSPolynomial: polynomial.NewPolynomialExponent(other),
		},
	})
	assert.ErrorIs(t, err, gg18.ErrCommitmentMismatch)
}

func TestRound3FeldmanCheck(t *testing.T) {
	r3, poly, decommitment, _ := testRound3(t)
	group := curve.Secp256k1{}

	require.NoError(t, r3.StoreBroadcastMessage(round.Message{
		From: "b",
		Content: &broadcast3{
			Decommitment:  decommitment,
			VSSPolynomial: polynomial.NewPolynomialExponent(poly),
		},
	}))

	// the correct share for party "a" passes
	good := poly.Evaluate(party.ID("a").Scalar(group))
	assert.NoError(t, r3.VerifyMessage(round.Message{
		From:    "b",
		Content: &message3{Share: good},
	}))

	// a corrupted share fails the Feldman check
	bad := group.NewScalar().Set(good).Add(group.NewScalar().SetUInt32(1))
	err := r3.VerifyMessage(round.Message{
		From:    "b",
		Content: &message3{Share: bad},
	})
	assert.ErrorIs(t, err, gg18.ErrFeldmanCheckFailed)
}

func TestRound2DetectsDuplicateModuli(t *testing.T) {
	group := curve.Secp256k1{}
	helper, err := round.NewSession(round.Info{
		ProtocolID:       protocolID,
		FinalRoundNumber: Rounds,
		SelfID:           "a",
		PartyIDs:         []party.ID{"a", "b"},
		Threshold:        2,
		Group:            group,
	}, nil, nil)
	require.NoError(t, err)

	ped := func(seed int64) *zk.Parameters {
		return &zk.Parameters{
			NTilde: big.NewInt(1000003 + seed),
			H1:     big.NewInt(4),
			H2:     big.NewInt(9),
		}
	}
	shared := &paillier.PublicKey{N: big.NewInt(143), G: big.NewInt(144)}
	r1 := &round1{Helper: helper, rand: rand.Reader}
	r2 := &round2{
		round1:         r1,
		paillierPublic: map[party.ID]*paillier.PublicKey{"a": shared, "b": shared},
		pedersenPublic: map[party.ID]*zk.Parameters{"a": ped(0), "b": ped(2)},
	}
	assert.ErrorIs(t, r2.assertDistinctModuli(), gg18.ErrDuplicatePaillierModulus)

	distinct := &paillier.PublicKey{N: big.NewInt(323), G: big.NewInt(324)}
	r2.paillierPublic["b"] = distinct
	assert.NoError(t, r2.assertDistinctModuli())
}
