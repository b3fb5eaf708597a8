// Package gg18 implements threshold ECDSA key generation and
// two-party signing following Gennaro & Goldfeder '18 over secp256k1.
//
// Key generation (protocols/gg18/keygen) produces an additive sharing
// x = Σ u_j distributed as Shamir shares; signing
// (protocols/gg18/sign) lets two parties of the quorum produce a
// standard ECDSA signature without reconstructing x. This package
// holds the failure taxonomy shared by the protocol rounds.
package gg18

import "errors"

// Protocol aborts: cheating was detected or a round failed
// verification. These are fatal for the session and carry the culprit
// through protocol.Error.
var (
	ErrCommitmentMismatch       = errors.New("gg18: decommitment does not open commitment")
	ErrFeldmanCheckFailed       = errors.New("gg18: share inconsistent with coefficient hidings")
	ErrRangeProofInvalid        = errors.New("gg18: MtA range proof rejected")
	ErrDuplicatePaillierModulus = errors.New("gg18: duplicate Paillier modulus")
	ErrMissingBroadcast         = errors.New("gg18: missing broadcast value")
	ErrZkProofFailed            = errors.New("gg18: zero-knowledge proof rejected")
)

// Degenerate outcomes: not attacks, the caller restarts the signing
// session with fresh randomness.
var (
	ErrRIsZero = errors.New("gg18: signature r is zero")
	ErrSIsZero = errors.New("gg18: signature s is zero")
)

// IsDegenerate reports whether the error only calls for a retry of the
// signing session rather than an abort.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrRIsZero) || errors.Is(err, ErrSIsZero)
}
