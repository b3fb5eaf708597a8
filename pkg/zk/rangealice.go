package zk

import (
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
)

// RangeProofAlice proves that the plaintext of the initiator's MtA
// ciphertext c = Enc(m, r) satisfies m < q³. Commitments are made under
// the verifier's ring-Pedersen parameters.
type RangeProofAlice struct {
	Z  *big.Int
	U  *big.Int
	W  *big.Int
	S  *big.Int
	S1 *big.Int
	S2 *big.Int
}

// RangeProveAlice produces the proof for c = Enc_pk(m, nonce).
func RangeProveAlice(h *hash.Hash, rd io.Reader, pk *paillier.PublicKey, ped *Parameters, q, c, m, nonce *big.Int) *RangeProofAlice {
	n2 := pk.NSquared()
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	qNTilde := new(big.Int).Mul(q, ped.NTilde)
	q3NTilde := new(big.Int).Mul(q3, ped.NTilde)

	alpha := sample.ModN(rd, q3)
	beta := sample.UnitModN(rd, n2)
	gamma := sample.ModN(rd, q3NTilde)
	rho := sample.ModN(rd, qNTilde)

	z := ped.commit(m, rho)
	u := new(big.Int).Exp(pk.G, alpha, n2)
	u.Mul(u, new(big.Int).Exp(beta, pk.N, n2)).Mod(u, n2)
	w := ped.commit(alpha, gamma)

	e := rangeChallengeAlice(h, pk, ped, q, c, z, u, w)

	s := new(big.Int).Exp(nonce, e, n2)
	s.Mul(s, beta).Mod(s, n2)
	s1 := new(big.Int).Mul(e, m)
	s1.Add(s1, alpha)
	s2 := new(big.Int).Mul(e, rho)
	s2.Add(s2, gamma)

	return &RangeProofAlice{Z: z, U: u, W: w, S: s, S1: s1, S2: s2}
}

// Verify checks the proof against the ciphertext c.
func (p *RangeProofAlice) Verify(h *hash.Hash, pk *paillier.PublicKey, ped *Parameters, q, c *big.Int) bool {
	if p == nil || anyNil(p.Z, p.U, p.W, p.S, p.S1, p.S2) {
		return false
	}
	n2 := pk.NSquared()
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	if p.S1.Sign() < 0 || p.S1.Cmp(q3) > 0 {
		return false
	}

	e := rangeChallengeAlice(h, pk, ped, q, c, p.Z, p.U, p.W)

	// u == g^s1 · s^N · c^{-e} mod N²
	cInv := new(big.Int).ModInverse(c, n2)
	if cInv == nil {
		return false
	}
	lhs := new(big.Int).Exp(pk.G, p.S1, n2)
	lhs.Mul(lhs, new(big.Int).Exp(p.S, pk.N, n2)).Mod(lhs, n2)
	lhs.Mul(lhs, new(big.Int).Exp(cInv, e, n2)).Mod(lhs, n2)
	if lhs.Cmp(new(big.Int).Mod(p.U, n2)) != 0 {
		return false
	}

	// h1^s1 · h2^s2 == w · z^e mod Ñ
	left := ped.commit(p.S1, p.S2)
	right := new(big.Int).Exp(p.Z, e, ped.NTilde)
	right.Mul(right, p.W).Mod(right, ped.NTilde)
	return left.Cmp(right) == 0
}

func rangeChallengeAlice(h *hash.Hash, pk *paillier.PublicKey, ped *Parameters, q, c, z, u, w *big.Int) *big.Int {
	state := h.Fork(&hash.BytesWithDomain{TheDomain: "RangeProofAlice", Bytes: nil})
	_ = state.WriteAny(pk.N, pk.G, ped.NTilde, ped.H1, ped.H2, c, z, u, w)
	e := new(big.Int).SetBytes(state.Sum())
	return e.Mod(e, q)
}

func anyNil(xs ...*big.Int) bool {
	for _, x := range xs {
		if x == nil {
			return true
		}
	}
	return false
}
