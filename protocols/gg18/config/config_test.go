package config_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/zk"
	"github.com/luxfi/gg18/protocols/gg18/config"
)

// fixtureConfigs fabricates a consistent set of shards for the given
// parties without running the protocol: a polynomial is sampled
// directly and each party gets its evaluation.
func fixtureConfigs(t *testing.T, ids party.IDSlice) map[party.ID]*config.Config {
	t.Helper()
	group := curve.Secp256k1{}

	secret := sample.Scalar(rand.Reader, group)
	poly, err := polynomial.NewPolynomial(rand.Reader, group, 1, secret)
	require.NoError(t, err)
	publicKey := secret.ActOnBase()

	public := make(map[party.ID]*config.Public, len(ids))
	for i, id := range ids {
		public[id] = &config.Public{
			ECDSA:    poly.Evaluate(id.Scalar(group)).ActOnBase(),
			Paillier: &paillier.PublicKey{N: big.NewInt(143 + int64(i)), G: big.NewInt(144)},
			Pedersen: &zk.Parameters{
				NTilde: big.NewInt(1000003 + int64(i)),
				H1:     big.NewInt(4),
				H2:     big.NewInt(9),
			},
		}
	}

	configs := make(map[party.ID]*config.Config, len(ids))
	for _, id := range ids {
		configs[id] = &config.Config{
			ID:        id,
			Group:     group,
			Threshold: 2,
			ECDSA:     poly.Evaluate(id.Scalar(group)),
			PublicKey: publicKey,
			Paillier: &paillier.SecretKey{
				PublicKey: *public[id].Paillier,
				Lambda:    big.NewInt(60),
				Mu:        big.NewInt(37),
			},
			Pedersen: public[id].Pedersen,
			Public:   public,
			PartyIDs: ids,
		}
	}
	return configs
}

func TestValidate(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	configs := fixtureConfigs(t, ids)
	for _, cfg := range configs {
		assert.NoError(t, cfg.Validate())
	}
}

func TestValidateRejectsInconsistentShare(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b"})
	cfg := fixtureConfigs(t, ids)["a"]
	group := curve.Secp256k1{}
	cfg.ECDSA = sample.Scalar(rand.Reader, group)
	assert.Error(t, cfg.Validate())
}

func TestOmegaSumsToSecret(t *testing.T) {
	group := curve.Secp256k1{}
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	configs := fixtureConfigs(t, ids)

	for _, pair := range [][2]party.ID{{"a", "b"}, {"a", "c"}, {"b", "c"}} {
		signers := party.NewIDSlice([]party.ID{pair[0], pair[1]})
		omegaA, err := configs[pair[0]].Omega(signers)
		require.NoError(t, err)
		omegaB, err := configs[pair[1]].Omega(signers)
		require.NoError(t, err)

		// ω_A + ω_B = x, so (ω_A + ω_B)·G = PK
		x := group.NewScalar().Set(omegaA).Add(omegaB)
		assert.True(t, x.ActOnBase().Equal(configs[pair[0]].PublicKey))
	}
}

func TestOmegaRequiresMembership(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	configs := fixtureConfigs(t, ids)
	_, err := configs["c"].Omega(party.NewIDSlice([]party.ID{"a", "b"}))
	assert.Error(t, err)
}

func TestCanSign(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	cfg := fixtureConfigs(t, ids)["a"]
	assert.True(t, cfg.CanSign(party.NewIDSlice([]party.ID{"a", "b"})))
	assert.False(t, cfg.CanSign(party.NewIDSlice([]party.ID{"b", "c"})))
	assert.False(t, cfg.CanSign(party.NewIDSlice([]party.ID{"a", "z"})))
}

func TestBinaryRoundTrip(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b", "c"})
	cfg := fixtureConfigs(t, ids)["b"]

	data, err := cfg.MarshalBinary()
	require.NoError(t, err)

	restored := &config.Config{Group: curve.Secp256k1{}}
	require.NoError(t, restored.UnmarshalBinary(data))

	assert.Equal(t, cfg.ID, restored.ID)
	assert.Equal(t, cfg.Threshold, restored.Threshold)
	assert.True(t, restored.ECDSA.Equal(cfg.ECDSA))
	assert.True(t, restored.PublicKey.Equal(cfg.PublicKey))
	assert.Zero(t, restored.Paillier.N.Cmp(cfg.Paillier.N))
	assert.Zero(t, restored.Paillier.Lambda.Cmp(cfg.Paillier.Lambda))
	assert.Zero(t, restored.Pedersen.NTilde.Cmp(cfg.Pedersen.NTilde))
	for _, id := range ids {
		assert.True(t, restored.Public[id].ECDSA.Equal(cfg.Public[id].ECDSA))
		assert.Zero(t, restored.Public[id].Paillier.N.Cmp(cfg.Public[id].Paillier.N))
	}
}

func TestUnmarshalRequiresGroup(t *testing.T) {
	cfg := &config.Config{}
	assert.Error(t, cfg.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestUnmarshalRejectsTruncated(t *testing.T) {
	ids := party.NewIDSlice([]party.ID{"a", "b"})
	cfg := fixtureConfigs(t, ids)["a"]
	data, err := cfg.MarshalBinary()
	require.NoError(t, err)

	restored := &config.Config{Group: curve.Secp256k1{}}
	assert.Error(t, restored.UnmarshalBinary(data[:len(data)-5]))
}
