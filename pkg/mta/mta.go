// Package mta implements the multiplicative-to-additive share
// conversion of GG18. The initiator holds a and the responder b, both
// in Z_q; afterwards the initiator holds α and the responder β with
// α + β ≡ a·b (mod q), and neither has learned the other's input.
package mta

import (
	"errors"
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/zk"
)

// ErrRangeProof is returned when a counterparty's range proof fails to
// verify; the session must abort.
var ErrRangeProof = errors.New("mta: range proof rejected")

// InitiatorMessage carries Enc(a) and the proof a < q³. The proof is
// made under the responder's ring-Pedersen parameters.
type InitiatorMessage struct {
	C     *big.Int
	Proof *zk.RangeProofAlice
}

// ResponderMessage carries c_B = c_A^b · Enc(β′) and the proof that
// b < q³ and β′ ≤ q⁷, made under the initiator's ring-Pedersen
// parameters.
type ResponderMessage struct {
	C     *big.Int
	Proof *zk.RangeProofBob
}

// InitiateShare starts a conversion: the initiator encrypts its secret
// a under its own Paillier key and proves the range bound to the
// responder. The transcript h must be bound to the initiator's
// identity on both sides.
func InitiateShare(h *hash.Hash, rd io.Reader, group curve.Curve, sk *paillier.SecretKey, responderPed *zk.Parameters, a curve.Scalar) (*InitiatorMessage, error) {
	q := orderBig(group)
	aBig, err := scalarBig(a)
	if err != nil {
		return nil, err
	}
	c, nonce, err := sk.EncAndNonce(rd, aBig)
	if err != nil {
		return nil, err
	}
	proof := zk.RangeProveAlice(h, rd, &sk.PublicKey, responderPed, q, c, aBig, nonce)
	return &InitiatorMessage{C: c, Proof: proof}, nil
}

// RespondShare answers an initiation. It verifies the initiator's
// range proof against ownPed, folds the responder's secret b and a
// fresh mask β′ ← Z_{q⁵} into the ciphertext, and returns the additive
// share β ≡ −β′ (mod q) together with the message to send back.
func RespondShare(h *hash.Hash, rd io.Reader, group curve.Curve, initiatorPK *paillier.PublicKey, ownPed, initiatorPed *zk.Parameters, msg *InitiatorMessage, b curve.Scalar) (curve.Scalar, *ResponderMessage, error) {
	q := orderBig(group)
	if msg == nil || msg.C == nil {
		return nil, nil, ErrRangeProof
	}
	if !msg.Proof.Verify(h, initiatorPK, ownPed, q, msg.C) {
		return nil, nil, ErrRangeProof
	}

	bBig, err := scalarBig(b)
	if err != nil {
		return nil, nil, err
	}

	// β′ ← Z_{q⁵}
	q5 := new(big.Int).Exp(q, big.NewInt(5), nil)
	betaPrm := sample.ModN(rd, q5)

	cTimesB, err := initiatorPK.ScalarMul(msg.C, bBig)
	if err != nil {
		return nil, nil, err
	}
	cBetaPrm, nonce, err := initiatorPK.EncAndNonce(rd, betaPrm)
	if err != nil {
		return nil, nil, err
	}
	cB, err := initiatorPK.Add(cTimesB, cBetaPrm)
	if err != nil {
		return nil, nil, err
	}

	proof := zk.RangeProveBob(h, rd, initiatorPK, initiatorPed, q, msg.C, cB, bBig, betaPrm, nonce)

	// β ≡ −β′ (mod q)
	beta := bigScalar(group, betaPrm).Negate()
	return beta, &ResponderMessage{C: cB, Proof: proof}, nil
}

// ReceiveShare completes a conversion on the initiator side: it
// verifies the responder's proof against ownPed, decrypts c_B and
// reduces mod q to obtain α = a·b + β′ mod q.
func ReceiveShare(h *hash.Hash, group curve.Curve, sk *paillier.SecretKey, ownPed *zk.Parameters, cA *big.Int, msg *ResponderMessage) (curve.Scalar, error) {
	q := orderBig(group)
	if msg == nil || msg.C == nil {
		return nil, ErrRangeProof
	}
	if !msg.Proof.Verify(h, &sk.PublicKey, ownPed, q, cA, msg.C) {
		return nil, ErrRangeProof
	}
	plain, err := sk.Dec(msg.C)
	if err != nil {
		return nil, err
	}
	return bigScalar(group, plain), nil
}

func orderBig(group curve.Curve) *big.Int {
	return new(big.Int).SetBytes(group.Order().Bytes())
}

func scalarBig(s curve.Scalar) (*big.Int, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}

func bigScalar(group curve.Curve, x *big.Int) curve.Scalar {
	q := orderBig(group)
	reduced := new(big.Int).Mod(x, q)
	buf := make([]byte, group.SafeScalarBytes())
	reduced.FillBytes(buf)
	s := group.NewScalar()
	if err := s.UnmarshalBinary(buf); err != nil {
		panic("mta: scalar conversion failure")
	}
	return s
}
