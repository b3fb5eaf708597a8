package sign

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pedersen"
	"github.com/luxfi/gg18/protocols/gg18"
)

func testRound5(t *testing.T) (*round5, curve.Point, *pedersen.PointDecommitment) {
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

	// the peer's honest phase-1 commitment to Γ_b
	Gamma := sample.Scalar(rand.Reader, group).ActOnBase()
	commitment, decommitment := pedersen.CommitPoint(rand.Reader, group, Gamma)

	r1 := &round1{Helper: helper, rand: rand.Reader}
	r2 := &round2{round1: r1, commitments: map[party.ID]curve.Point{"b": commitment}}
	r3 := &round3{round2: r2}
	r4 := &round4{round3: r3}
	r5 := &round5{round4: r4, gammas: map[party.ID]curve.Point{}}
	return r5, commitment, decommitment
}

func TestRound5AcceptsHonestOpening(t *testing.T) {
	r5, _, decommitment := testRound5(t)
	err := r5.StoreBroadcastMessage(round.Message{
		From:    "b",
		Content: &broadcast5{Decommitment: decommitment},
	})
	assert.NoError(t, err)
	assert.True(t, r5.gammas["b"].Equal(decommitment.Secret))
}

// A party that commits to one Γ and opens to another must be caught in
// phase 4.
func TestRound5DetectsCommitmentMismatch(t *testing.T) {
	r5, _, decommitment := testRound5(t)
	group := curve.Secp256k1{}

	forged := &pedersen.PointDecommitment{
		Secret:   sample.Scalar(rand.Reader, group).ActOnBase(),
		Blinding: decommitment.Blinding,
	}
	err := r5.StoreBroadcastMessage(round.Message{
		From:    "b",
		Content: &broadcast5{Decommitment: forged},
	})
	assert.ErrorIs(t, err, gg18.ErrCommitmentMismatch)
}

func TestRound7DetectsShareMismatch(t *testing.T) {
	r5, _, _ := testRound5(t)
	group := curve.Secp256k1{}

	sI := sample.Scalar(rand.Reader, group)
	commitment, decommitment := pedersen.Commit(rand.Reader, group, sI)

	r6 := &round6{
		round5:         r5,
		sigCommitments: map[party.ID]curve.Point{"b": commitment},
	}
	r7 := &round7{round6: r6, sigShares: map[party.ID]curve.Scalar{}}

	require.NoError(t, r7.StoreBroadcastMessage(round.Message{
		From:    "b",
		Content: &broadcast7{Decommitment: decommitment},
	}))
	assert.True(t, r7.sigShares["b"].Equal(sI))

	forged := &pedersen.Decommitment{
		Secret:   sample.Scalar(rand.Reader, group),
		Blinding: decommitment.Blinding,
	}
	r7b := &round7{round6: r6, sigShares: map[party.ID]curve.Scalar{}}
	err := r7b.StoreBroadcastMessage(round.Message{
		From:    "b",
		Content: &broadcast7{Decommitment: forged},
	})
	assert.ErrorIs(t, err, gg18.ErrCommitmentMismatch)
}
