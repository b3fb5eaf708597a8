// Package keygen implements GG18 distributed key generation.
//
// Each party i samples u_i and commits to U_i = u_i·G; the shared
// secret is x = Σ u_i, Shamir-shared through per-party Feldman VSS so
// that party j ends up with the share x_j = Σ_i p_i(x_j) of a
// degree-(t−1) polynomial with constant term x. Alongside, every party
// generates a Paillier key pair and ring-Pedersen parameters and
// proves both well-formed.
package keygen

import (
	"io"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pool"
	"github.com/luxfi/gg18/pkg/protocol"
)

// Rounds is the number of message rounds of the protocol.
const Rounds round.Number = 4

// protocolID tags every message of this protocol.
const protocolID = "gg18/keygen-1.0.0"

// Start returns a StartFunc for a key generation among the given
// parties. The quorum size for later signing is threshold. Randomness
// is drawn from rd; production callers pass crypto/rand.Reader.
func Start(group curve.Curve, selfID party.ID, participants []party.ID, threshold int, pl *pool.Pool, rd io.Reader) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: Rounds,
			SelfID:           selfID,
			PartyIDs:         participants,
			Threshold:        threshold,
			Group:            group,
		}
		helper, err := round.NewSession(info, sessionID, pl)
		if err != nil {
			return nil, err
		}
		return &round1{Helper: helper, rand: rd}, nil
	}
}
