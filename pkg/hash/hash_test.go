package hash_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/pkg/hash"
)

func TestDeterministic(t *testing.T) {
	h1 := hash.New()
	h2 := hash.New()
	require.NoError(t, h1.WriteAny([]byte("hello"), uint64(42)))
	require.NoError(t, h2.WriteAny([]byte("hello"), uint64(42)))
	assert.Equal(t, h1.Sum(), h2.Sum())
}

func TestDomainSeparation(t *testing.T) {
	h1 := hash.New(&hash.BytesWithDomain{TheDomain: "A", Bytes: []byte("x")})
	h2 := hash.New(&hash.BytesWithDomain{TheDomain: "B", Bytes: []byte("x")})
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestBoundaryAmbiguity(t *testing.T) {
	// "ab" + "c" must differ from "a" + "bc"
	h1 := hash.New()
	require.NoError(t, h1.WriteAny([]byte("ab"), []byte("c")))
	h2 := hash.New()
	require.NoError(t, h2.WriteAny([]byte("a"), []byte("bc")))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestSumDoesNotConsume(t *testing.T) {
	h := hash.New()
	require.NoError(t, h.WriteAny([]byte("data")))
	first := h.Sum()
	second := h.Sum()
	assert.Equal(t, first, second)

	require.NoError(t, h.WriteAny([]byte("more")))
	assert.NotEqual(t, first, h.Sum())
}

func TestCloneIndependence(t *testing.T) {
	h := hash.New()
	require.NoError(t, h.WriteAny([]byte("base")))
	clone := h.Clone()
	require.NoError(t, clone.WriteAny([]byte("branch")))
	assert.NotEqual(t, h.Sum(), clone.Sum())
}

func TestForkDiverges(t *testing.T) {
	h := hash.New()
	require.NoError(t, h.WriteAny([]byte("base")))
	f1 := h.Fork(&hash.BytesWithDomain{TheDomain: "left", Bytes: nil})
	f2 := h.Fork(&hash.BytesWithDomain{TheDomain: "right", Bytes: nil})
	assert.NotEqual(t, f1.Sum(), f2.Sum())
}

func TestBigIntSign(t *testing.T) {
	h1 := hash.New()
	require.NoError(t, h1.WriteAny(big.NewInt(5)))
	h2 := hash.New()
	require.NoError(t, h2.WriteAny(big.NewInt(-5)))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestUnsupportedType(t *testing.T) {
	h := hash.New()
	assert.Error(t, h.WriteAny(struct{}{}))
}
