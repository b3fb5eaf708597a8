// Package paillier implements the Paillier additively homomorphic
// cryptosystem in its general (N, g) form.
//
// Operations are not constant-time in the plaintext; callers holding
// secret plaintexts must not branch on their values outside this
// package.
package paillier

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/pool"
)

var (
	// ErrPlaintextRange is returned when a plaintext is outside [0, N).
	ErrPlaintextRange = errors.New("paillier: message outside [0, N)")
	// ErrCiphertextRange is returned when a ciphertext is outside Z*_{N²}.
	ErrCiphertextRange = errors.New("paillier: malformed ciphertext")

	one = big.NewInt(1)
)

// GCalcMethod selects how the generator g is chosen during key
// generation.
type GCalcMethod int

const (
	// GCalcRandom draws g uniformly from Z*_{N²}.
	GCalcRandom GCalcMethod = iota
	// GCalcKNPlusOne draws g = k·N + 1 for random k coprime to N.
	GCalcKNPlusOne
)

// PublicKey is a Paillier encryption key.
type PublicKey struct {
	N *big.Int
	G *big.Int
}

// SecretKey is a Paillier decryption key.
type SecretKey struct {
	PublicKey
	// Lambda is lcm(p−1, q−1).
	Lambda *big.Int
	// Mu is L(g^λ mod N²)⁻¹ mod N.
	Mu *big.Int
	// PhiN is (p−1)(q−1), kept for the modulus proof.
	PhiN *big.Int
}

// KeyGen generates a fresh key pair whose modulus has more than the
// given bit length. The pool, when non-nil, parallelizes prime search.
func KeyGen(rd io.Reader, bits int, method GCalcMethod, pl *pool.Pool) (*SecretKey, error) {
	p, q := sample.PaillierPrimes(rd, bits, pl)
	return NewKeyPairFromPrimes(rd, p, q, method)
}

// NewKeyPairFromPrimes derives a key pair from two distinct primes.
// Exposed so tests can pin deterministic toy keys.
func NewKeyPairFromPrimes(rd io.Reader, p, q *big.Int, method GCalcMethod) (*SecretKey, error) {
	if p.Cmp(q) == 0 {
		return nil, errors.New("paillier: p and q must be distinct")
	}
	if !p.ProbablyPrime(20) || !q.ProbablyPrime(20) {
		return nil, errors.New("paillier: p and q must be prime")
	}

	n := new(big.Int).Mul(p, q)
	n2 := new(big.Int).Mul(n, n)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	phiN := new(big.Int).Mul(pMinus1, qMinus1)
	gcd := new(big.Int).GCD(nil, nil, pMinus1, qMinus1)
	lambda := new(big.Int).Div(phiN, gcd)

	// Reject any g whose L(g^λ) is not invertible mod N.
	var g, mu *big.Int
	for {
		g = calcG(rd, method, n, n2)
		gLambda := new(big.Int).Exp(g, lambda, n2)
		l, err := L(gLambda, n)
		if err != nil {
			continue
		}
		mu = new(big.Int).ModInverse(l, n)
		if mu != nil {
			break
		}
	}

	return &SecretKey{
		PublicKey: PublicKey{N: n, G: g},
		Lambda:    lambda,
		Mu:        mu,
		PhiN:      phiN,
	}, nil
}

func calcG(rd io.Reader, method GCalcMethod, n, n2 *big.Int) *big.Int {
	switch method {
	case GCalcKNPlusOne:
		k := sample.UnitModN(rd, n)
		g := new(big.Int).Mul(k, n)
		g.Add(g, one)
		return g.Mod(g, n2)
	default:
		return sample.UnitModN(rd, n2)
	}
}

// NSquared returns N².
func (pk *PublicKey) NSquared() *big.Int {
	return new(big.Int).Mul(pk.N, pk.N)
}

// Equal reports whether two public keys are identical.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.N.Cmp(other.N) == 0 && pk.G.Cmp(other.G) == 0
}

// ValidateForOrder checks the modulus size constraint N > q⁸ required
// for the MtA range-proof bounds to hold.
func (pk *PublicKey) ValidateForOrder(q *big.Int) error {
	q8 := new(big.Int).Exp(q, big.NewInt(8), nil)
	if pk.N.Cmp(q8) <= 0 {
		return fmt.Errorf("paillier: modulus below q^8 (%d bits)", pk.N.BitLen())
	}
	return nil
}

// Enc encrypts 0 ≤ m < N with fresh randomness from rd.
func (pk *PublicKey) Enc(rd io.Reader, m *big.Int) (*big.Int, error) {
	c, _, err := pk.EncAndNonce(rd, m)
	return c, err
}

// EncAndNonce encrypts m and also returns the nonce, which range
// proofs need.
func (pk *PublicKey) EncAndNonce(rd io.Reader, m *big.Int) (c, nonce *big.Int, err error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, nil, ErrPlaintextRange
	}
	n2 := pk.NSquared()
	nonce = sample.UnitModN(rd, n2)
	return pk.encWithNonce(m, nonce, n2), nonce, nil
}

// EncWithNonce encrypts m under a caller-chosen nonce. Used by proof
// verification; nonce must be a unit mod N².
func (pk *PublicKey) EncWithNonce(m, nonce *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, ErrPlaintextRange
	}
	return pk.encWithNonce(m, nonce, pk.NSquared()), nil
}

// c = g^m · r^N mod N²
func (pk *PublicKey) encWithNonce(m, nonce, n2 *big.Int) *big.Int {
	gm := new(big.Int).Exp(pk.G, m, n2)
	rn := new(big.Int).Exp(nonce, pk.N, n2)
	c := new(big.Int).Mul(gm, rn)
	return c.Mod(c, n2)
}

// Add homomorphically adds two ciphertexts: Dec(Add(c1,c2)) = m1+m2 mod N.
func (pk *PublicKey) Add(c1, c2 *big.Int) (*big.Int, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c1, n2); err != nil {
		return nil, err
	}
	if err := validateCiphertext(c2, n2); err != nil {
		return nil, err
	}
	out := new(big.Int).Mul(c1, c2)
	return out.Mod(out, n2), nil
}

// ScalarMul multiplies the plaintext by k: Dec(ScalarMul(c,k)) = k·m mod N.
func (pk *PublicKey) ScalarMul(c, k *big.Int) (*big.Int, error) {
	n2 := pk.NSquared()
	if err := validateCiphertext(c, n2); err != nil {
		return nil, err
	}
	if k.Sign() < 0 {
		return nil, ErrPlaintextRange
	}
	return new(big.Int).Exp(c, k, n2), nil
}

// Dec decrypts a ciphertext: m = L(c^λ mod N²)·μ mod N.
func (sk *SecretKey) Dec(c *big.Int) (*big.Int, error) {
	n2 := sk.NSquared()
	if err := validateCiphertext(c, n2); err != nil {
		return nil, err
	}
	cLambda := new(big.Int).Exp(c, sk.Lambda, n2)
	l, err := L(cLambda, sk.N)
	if err != nil {
		return nil, err
	}
	m := new(big.Int).Mul(l, sk.Mu)
	return m.Mod(m, sk.N), nil
}

// L is the Paillier L-function L(u) = (u−1)/N, defined only for
// u ≡ 1 (mod N).
func L(u, n *big.Int) (*big.Int, error) {
	t := new(big.Int).Sub(u, one)
	if t.Sign() < 0 {
		return nil, errors.New("paillier: negative L argument")
	}
	quo, rem := new(big.Int).QuoRem(t, n, new(big.Int))
	if rem.Sign() != 0 {
		return nil, errors.New("paillier: L argument not 1 mod N")
	}
	return quo, nil
}

func validateCiphertext(c, n2 *big.Int) error {
	if c == nil || c.Sign() <= 0 || c.Cmp(n2) >= 0 {
		return ErrCiphertextRange
	}
	if new(big.Int).GCD(nil, nil, c, n2).Cmp(one) != 0 {
		return ErrCiphertextRange
	}
	return nil
}
