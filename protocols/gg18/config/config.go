// Package config defines the persistent state a party keeps after key
// generation: its key shard and every peer's public material.
package config

import (
	"errors"
	"fmt"

	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/zk"
)

// Public is the key material a party publishes about itself during key
// generation.
type Public struct {
	// ECDSA is the public share X_i = x_i·G.
	ECDSA curve.Point
	// Paillier is the party's encryption key E_i.
	Paillier *paillier.PublicKey
	// Pedersen are the party's ring-Pedersen parameters for range
	// proofs addressed to it.
	Pedersen *zk.Parameters
}

// Config is a party's key shard. It contains secret key material and
// must be stored safely.
type Config struct {
	// ID is this party's identifier.
	ID party.ID
	// Group is the elliptic curve group; it must be set before
	// unmarshalling.
	Group curve.Curve
	// Threshold is the number of parties required to sign.
	Threshold int
	// ECDSA is the secret Shamir share x_i.
	ECDSA curve.Scalar
	// PublicKey is the group public key PK = Σ U_j.
	PublicKey curve.Point
	// Paillier is this party's decryption key.
	Paillier *paillier.SecretKey
	// Pedersen are this party's own ring-Pedersen parameters.
	Pedersen *zk.Parameters
	// Public holds every party's published material, own included.
	Public map[party.ID]*Public
	// PartyIDs lists all participants.
	PartyIDs party.IDSlice
}

// Validate checks the structural consistency of the shard.
func (c *Config) Validate() error {
	if c.ID == "" || c.Group == nil {
		return errors.New("config: missing identity or group")
	}
	if c.Threshold < 2 {
		return errors.New("config: threshold below 2")
	}
	if c.ECDSA == nil || c.ECDSA.IsZero() {
		return errors.New("config: missing secret share")
	}
	if c.PublicKey == nil || c.PublicKey.IsIdentity() {
		return errors.New("config: missing public key")
	}
	if c.Paillier == nil || c.Pedersen == nil {
		return errors.New("config: missing Paillier key or Pedersen parameters")
	}
	if !c.PartyIDs.Contains(c.ID) {
		return errors.New("config: own ID not among participants")
	}
	for _, id := range c.PartyIDs {
		p := c.Public[id]
		if p == nil || p.ECDSA == nil || p.Paillier == nil || p.Pedersen == nil {
			return fmt.Errorf("config: incomplete public material for %s", id)
		}
	}
	// the published X_i must match our share
	if !c.Public[c.ID].ECDSA.Equal(c.ECDSA.ActOnBase()) {
		return errors.New("config: secret share does not match public share")
	}
	return nil
}

// Index returns this party's 0-based position in the sorted participant
// list, the share index of the persisted format.
func (c *Config) Index() int { return c.PartyIDs.GetIndex(c.ID) }

// Omega applies the Lagrange weight at 0 for the given quorum to the
// share: ω_i = λ_{i,S}(0)·x_i. The resulting additive shares satisfy
// Σ ω = x. The quorum must contain this party and at least Threshold
// members.
func (c *Config) Omega(signers party.IDSlice) (curve.Scalar, error) {
	if !signers.Contains(c.ID) {
		return nil, errors.New("config: party not in signing quorum")
	}
	if signers.Len() < c.Threshold {
		return nil, fmt.Errorf("config: quorum of %d below threshold %d", signers.Len(), c.Threshold)
	}
	lagrange := polynomial.Lagrange(c.Group, signers)
	return c.Group.NewScalar().Set(c.ECDSA).Mul(lagrange[c.ID]), nil
}

// CanSign reports whether the given quorum can produce a signature
// with this shard.
func (c *Config) CanSign(signers party.IDSlice) bool {
	if !signers.Valid() || signers.Len() < c.Threshold || !signers.Contains(c.ID) {
		return false
	}
	for _, id := range signers {
		if _, ok := c.Public[id]; !ok {
			return false
		}
	}
	return true
}
