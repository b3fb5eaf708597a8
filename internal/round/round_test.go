package round_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
)

func validInfo() round.Info {
	return round.Info{
		ProtocolID:       "test/protocol",
		FinalRoundNumber: 3,
		SelfID:           "a",
		PartyIDs:         []party.ID{"a", "b", "c"},
		Threshold:        2,
		Group:            curve.Secp256k1{},
	}
}

func TestNewSession(t *testing.T) {
	h, err := round.NewSession(validInfo(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, party.ID("a"), h.SelfID())
	assert.Equal(t, 3, h.N())
	assert.Equal(t, party.IDSlice{"b", "c"}, h.OtherPartyIDs())
	assert.NotEmpty(t, h.SSID())
}

func TestNewSessionValidation(t *testing.T) {
	info := validInfo()
	info.SelfID = "z"
	_, err := round.NewSession(info, nil, nil)
	assert.Error(t, err, "self not in parties")

	info = validInfo()
	info.Threshold = 1
	_, err = round.NewSession(info, nil, nil)
	assert.Error(t, err, "threshold below 2")

	info = validInfo()
	info.Threshold = 4
	_, err = round.NewSession(info, nil, nil)
	assert.Error(t, err, "threshold above n")

	info = validInfo()
	info.PartyIDs = []party.ID{"a", "a", "b"}
	_, err = round.NewSession(info, nil, nil)
	assert.Error(t, err, "duplicate ids")

	info = validInfo()
	info.Group = nil
	_, err = round.NewSession(info, nil, nil)
	assert.Error(t, err, "missing group")
}

func TestSSIDBindsSession(t *testing.T) {
	h1, err := round.NewSession(validInfo(), []byte("one"), nil)
	require.NoError(t, err)
	h2, err := round.NewSession(validInfo(), []byte("two"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, h1.SSID(), h2.SSID())

	h3, err := round.NewSession(validInfo(), []byte("one"), nil)
	require.NoError(t, err)
	assert.Equal(t, h1.SSID(), h3.SSID())
}

func TestHashForIDDiverges(t *testing.T) {
	h, err := round.NewSession(validInfo(), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, h.HashForID("a").Sum(), h.HashForID("b").Sum())
	// the base state is untouched
	assert.Equal(t, h.Hash().Sum(), h.Hash().Sum())
}
