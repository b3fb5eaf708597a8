// Package sign implements GG18 two-party signing.
//
// Two parties of the keygen quorum convert their Shamir shares into
// additive shares ω_A, ω_B with ω_A + ω_B = x, then run five phases of
// commitments and MtA conversions producing (r, s) such that neither
// the nonce k nor the key x ever materializes at a single party.
package sign

import (
	"errors"
	"io"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pool"
	"github.com/luxfi/gg18/pkg/protocol"
	"github.com/luxfi/gg18/protocols/gg18/config"
)

// Rounds is the number of message rounds of the protocol.
const Rounds round.Number = 7

// protocolID tags every message of this protocol.
const protocolID = "gg18/sign-1.0.0"

// Start returns a StartFunc for signing messageHash with the two given
// signers. The shard's Lagrange weighting to ω happens internally;
// messageHash must be the output of the caller's hash function and is
// interpreted as a big-endian integer mod q.
func Start(cfg *config.Config, signers []party.ID, messageHash []byte, pl *pool.Pool, rd io.Reader) protocol.StartFunc {
	return func(sessionID []byte) (round.Session, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		signerIDs := party.NewIDSlice(signers)
		if signerIDs.Len() != 2 {
			return nil, errors.New("sign: exactly two signers required")
		}
		if !cfg.CanSign(signerIDs) {
			return nil, errors.New("sign: shard cannot sign with this quorum")
		}
		if len(messageHash) == 0 {
			return nil, errors.New("sign: empty message hash")
		}

		info := round.Info{
			ProtocolID:       protocolID,
			FinalRoundNumber: Rounds,
			SelfID:           cfg.ID,
			PartyIDs:         signerIDs,
			Threshold:        cfg.Threshold,
			Group:            cfg.Group,
		}
		helper, err := round.NewSession(info, sessionID, pl)
		if err != nil {
			return nil, err
		}

		omega, err := cfg.Omega(signerIDs)
		if err != nil {
			return nil, err
		}
		m := cfg.Group.NewScalar().SetNat(new(saferith.Nat).SetBytes(messageHash))

		return &round1{
			Helper: helper,
			rand:   rd,
			cfg:    cfg,
			omega:  omega,
			msg:    m,
		}, nil
	}
}

// otherID returns the peer in a two-party session.
func otherID(h *round.Helper) party.ID { return h.OtherPartyIDs()[0] }
