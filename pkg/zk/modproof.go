package zk

import (
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/paillier"
)

// ModProofIters is the number of N-th-root challenges in the Paillier
// modulus proof (~80-bit soundness).
const ModProofIters = 13

// primes below 1000, used for the trial-division side of verification
const verifyPrimesUntil = 1000

// ModProof proves that a Paillier modulus N was generated correctly:
// the prover exhibits N-th roots of pseudo-random challenges, which is
// feasible only when gcd(N, φ(N)) = 1.
type ModProof struct {
	Ys [ModProofIters]*big.Int
}

// ModProve produces a proof for the given secret key. The hash state
// carries the session transcript and must match the verifier's.
func ModProve(h *hash.Hash, sk *paillier.SecretKey) *ModProof {
	xs := generateXs(h, sk.N)
	// N-th roots: y = x^(N⁻¹ mod φ(N)) mod N
	m := new(big.Int).ModInverse(sk.N, sk.PhiN)
	var proof ModProof
	for i := 0; i < ModProofIters; i++ {
		proof.Ys[i] = new(big.Int).Exp(xs[i], m, sk.N)
	}
	return &proof
}

// Verify checks the proof against the public modulus.
func (p *ModProof) Verify(h *hash.Hash, pk *paillier.PublicKey) bool {
	if p == nil {
		return false
	}
	for _, prime := range smallPrimes() {
		if new(big.Int).Mod(pk.N, big.NewInt(prime)).Sign() == 0 {
			return false
		}
	}
	xs := generateXs(h, pk.N)
	for i := 0; i < ModProofIters; i++ {
		if p.Ys[i] == nil || p.Ys[i].Sign() <= 0 || p.Ys[i].Cmp(pk.N) >= 0 {
			return false
		}
		yN := new(big.Int).Exp(p.Ys[i], pk.N, pk.N)
		if yN.Cmp(new(big.Int).Mod(xs[i], pk.N)) != 0 {
			return false
		}
	}
	return true
}

// generateXs derives the challenge values x_1..x_m in Z*_N from the
// transcript, rejection-sampling non-units.
func generateXs(h *hash.Hash, n *big.Int) []*big.Int {
	one := big.NewInt(1)
	nLen := (n.BitLen() + 7) / 8
	xs := make([]*big.Int, ModProofIters)
	var attempt uint64
	for i := 0; i < ModProofIters; {
		state := h.Fork(&hash.BytesWithDomain{TheDomain: "ModProof-X", Bytes: nil})
		_ = state.WriteAny(uint64(i), attempt, n)
		buf := make([]byte, nLen)
		if _, err := io.ReadFull(state.Digest(), buf); err != nil {
			panic("zk: xof failure")
		}
		x := new(big.Int).SetBytes(buf)
		x.Mod(x, n)
		if x.Sign() != 0 && new(big.Int).GCD(nil, nil, x, n).Cmp(one) == 0 {
			xs[i] = x
			i++
		} else {
			attempt++
		}
	}
	return xs
}

var smallPrimesCache = sievePrimes()

func smallPrimes() []int64 { return smallPrimesCache }

func sievePrimes() []int64 {
	var out []int64
	sieve := make([]bool, verifyPrimesUntil+1)
	for i := 2; i <= verifyPrimesUntil; i++ {
		if sieve[i] {
			continue
		}
		out = append(out, int64(i))
		for j := i * i; j <= verifyPrimesUntil; j += i {
			sieve[j] = true
		}
	}
	return out
}
