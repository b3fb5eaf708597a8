package paillier_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/pool"
)

// toyKey builds the p=11, q=13, N=143 key pair.
func toyKey(t *testing.T, method paillier.GCalcMethod) *paillier.SecretKey {
	t.Helper()
	sk, err := paillier.NewKeyPairFromPrimes(rand.Reader, big.NewInt(11), big.NewInt(13), method)
	require.NoError(t, err)
	require.Equal(t, int64(143), sk.N.Int64())
	return sk
}

func TestToyEncDec(t *testing.T) {
	for _, method := range []paillier.GCalcMethod{paillier.GCalcRandom, paillier.GCalcKNPlusOne} {
		sk := toyKey(t, method)
		c, err := sk.Enc(rand.Reader, big.NewInt(42))
		require.NoError(t, err)
		m, err := sk.Dec(c)
		require.NoError(t, err)
		assert.Equal(t, int64(42), m.Int64())
	}
}

func TestToyHomomorphicAdd(t *testing.T) {
	sk := toyKey(t, paillier.GCalcKNPlusOne)
	c1, err := sk.Enc(rand.Reader, big.NewInt(17))
	require.NoError(t, err)
	c2, err := sk.Enc(rand.Reader, big.NewInt(22))
	require.NoError(t, err)

	sum, err := sk.Add(c1, c2)
	require.NoError(t, err)
	m, err := sk.Dec(sum)
	require.NoError(t, err)
	assert.Equal(t, int64(39), m.Int64())
}

func TestToyScalarMul(t *testing.T) {
	sk := toyKey(t, paillier.GCalcKNPlusOne)
	c, err := sk.Enc(rand.Reader, big.NewInt(13))
	require.NoError(t, err)

	scaled, err := sk.ScalarMul(c, big.NewInt(7))
	require.NoError(t, err)
	m, err := sk.Dec(scaled)
	require.NoError(t, err)
	assert.Equal(t, int64((13*7)%143), m.Int64())
}

func TestEncRange(t *testing.T) {
	sk := toyKey(t, paillier.GCalcKNPlusOne)
	_, err := sk.Enc(rand.Reader, big.NewInt(143))
	assert.ErrorIs(t, err, paillier.ErrPlaintextRange)
	_, err = sk.Enc(rand.Reader, big.NewInt(-1))
	assert.ErrorIs(t, err, paillier.ErrPlaintextRange)

	// m = N-1 is the last valid plaintext
	c, err := sk.Enc(rand.Reader, big.NewInt(142))
	require.NoError(t, err)
	m, err := sk.Dec(c)
	require.NoError(t, err)
	assert.Equal(t, int64(142), m.Int64())
}

func TestDecRejectsMalformed(t *testing.T) {
	sk := toyKey(t, paillier.GCalcKNPlusOne)
	_, err := sk.Dec(big.NewInt(0))
	assert.ErrorIs(t, err, paillier.ErrCiphertextRange)
	_, err = sk.Dec(sk.NSquared())
	assert.ErrorIs(t, err, paillier.ErrCiphertextRange)
	// multiple of 11·13 shares a factor with N²
	_, err = sk.Dec(big.NewInt(143 * 3))
	assert.ErrorIs(t, err, paillier.ErrCiphertextRange)
}

func TestDistinctPrimesRequired(t *testing.T) {
	_, err := paillier.NewKeyPairFromPrimes(rand.Reader, big.NewInt(11), big.NewInt(11), paillier.GCalcRandom)
	assert.Error(t, err)
}

func TestMediumKeyRoundTrip(t *testing.T) {
	p := sample.Prime(rand.Reader, 128)
	q := sample.Prime(rand.Reader, 128)
	for p.Cmp(q) == 0 {
		q = sample.Prime(rand.Reader, 128)
	}
	sk, err := paillier.NewKeyPairFromPrimes(rand.Reader, p, q, paillier.GCalcKNPlusOne)
	require.NoError(t, err)

	m := sample.ModN(rand.Reader, sk.N)
	c, err := sk.Enc(rand.Reader, m)
	require.NoError(t, err)
	dec, err := sk.Dec(c)
	require.NoError(t, err)
	assert.Zero(t, m.Cmp(dec))
}

func TestKeyGenMeetsOrderBound(t *testing.T) {
	if testing.Short() {
		t.Skip("prime generation is slow")
	}
	pl := pool.NewPool(0)
	defer pl.TearDown()

	sk, err := paillier.KeyGen(rand.Reader, 2048, paillier.GCalcKNPlusOne, pl)
	require.NoError(t, err)
	assert.Greater(t, sk.N.BitLen(), 2048)

	q, _ := new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	assert.NoError(t, sk.ValidateForOrder(q))
}
