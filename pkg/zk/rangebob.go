package zk

import (
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/paillier"
)

// RangeProofBob proves that the responder's MtA ciphertext
// c2 = c1^x · Enc(y, r) was formed with x < q³ and y ≤ q⁷, where y is
// the masking value β′. Commitments are made under the verifier's
// ring-Pedersen parameters.
type RangeProofBob struct {
	Z    *big.Int
	ZPrm *big.Int
	T    *big.Int
	V    *big.Int
	W    *big.Int
	S    *big.Int
	S1   *big.Int
	S2   *big.Int
	T1   *big.Int
	T2   *big.Int
}

// RangeProveBob produces the proof for c2 = c1^x · Enc_pk(y, nonce).
func RangeProveBob(h *hash.Hash, rd io.Reader, pk *paillier.PublicKey, ped *Parameters, q, c1, c2, x, y, nonce *big.Int) *RangeProofBob {
	n2 := pk.NSquared()
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	q7 := new(big.Int).Exp(q, big.NewInt(7), nil)
	qNTilde := new(big.Int).Mul(q, ped.NTilde)
	q3NTilde := new(big.Int).Mul(q3, ped.NTilde)

	alpha := sample.ModN(rd, q3)
	rho := sample.ModN(rd, qNTilde)
	rhoPrm := sample.ModN(rd, q3NTilde)
	sigma := sample.ModN(rd, qNTilde)
	tau := sample.ModN(rd, q3NTilde)
	gamma := sample.ModN(rd, q7)
	beta := sample.UnitModN(rd, n2)

	z := ped.commit(x, rho)
	zPrm := ped.commit(alpha, rhoPrm)
	t := ped.commit(y, sigma)
	v := new(big.Int).Exp(c1, alpha, n2)
	v.Mul(v, new(big.Int).Exp(pk.G, gamma, n2)).Mod(v, n2)
	v.Mul(v, new(big.Int).Exp(beta, pk.N, n2)).Mod(v, n2)
	w := ped.commit(gamma, tau)

	e := rangeChallengeBob(h, pk, ped, q, c1, c2, z, zPrm, t, v, w)

	s := new(big.Int).Exp(nonce, e, n2)
	s.Mul(s, beta).Mod(s, n2)
	s1 := new(big.Int).Mul(e, x)
	s1.Add(s1, alpha)
	s2 := new(big.Int).Mul(e, rho)
	s2.Add(s2, rhoPrm)
	t1 := new(big.Int).Mul(e, y)
	t1.Add(t1, gamma)
	t2 := new(big.Int).Mul(e, sigma)
	t2.Add(t2, tau)

	return &RangeProofBob{Z: z, ZPrm: zPrm, T: t, V: v, W: w, S: s, S1: s1, S2: s2, T1: t1, T2: t2}
}

// Verify checks the proof against the ciphertext pair (c1, c2).
func (p *RangeProofBob) Verify(h *hash.Hash, pk *paillier.PublicKey, ped *Parameters, q, c1, c2 *big.Int) bool {
	if p == nil || anyNil(p.Z, p.ZPrm, p.T, p.V, p.W, p.S, p.S1, p.S2, p.T1, p.T2) {
		return false
	}
	n2 := pk.NSquared()
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	q7 := new(big.Int).Exp(q, big.NewInt(7), nil)
	if p.S1.Sign() < 0 || p.S1.Cmp(q3) > 0 {
		return false
	}
	if p.T1.Sign() < 0 || p.T1.Cmp(q7) > 0 {
		return false
	}

	e := rangeChallengeBob(h, pk, ped, q, c1, c2, p.Z, p.ZPrm, p.T, p.V, p.W)

	// h1^s1 · h2^s2 == zPrm · z^e mod Ñ
	left := ped.commit(p.S1, p.S2)
	right := new(big.Int).Exp(p.Z, e, ped.NTilde)
	right.Mul(right, p.ZPrm).Mod(right, ped.NTilde)
	if left.Cmp(right) != 0 {
		return false
	}

	// h1^t1 · h2^t2 == w · t^e mod Ñ
	left = ped.commit(p.T1, p.T2)
	right = new(big.Int).Exp(p.T, e, ped.NTilde)
	right.Mul(right, p.W).Mod(right, ped.NTilde)
	if left.Cmp(right) != 0 {
		return false
	}

	// c1^s1 · g^t1 · s^N == v · c2^e mod N²
	lhs := new(big.Int).Exp(c1, p.S1, n2)
	lhs.Mul(lhs, new(big.Int).Exp(pk.G, p.T1, n2)).Mod(lhs, n2)
	lhs.Mul(lhs, new(big.Int).Exp(p.S, pk.N, n2)).Mod(lhs, n2)
	rhs := new(big.Int).Exp(c2, e, n2)
	rhs.Mul(rhs, new(big.Int).Mod(p.V, n2)).Mod(rhs, n2)
	return lhs.Cmp(rhs) == 0
}

func rangeChallengeBob(h *hash.Hash, pk *paillier.PublicKey, ped *Parameters, q, c1, c2, z, zPrm, t, v, w *big.Int) *big.Int {
	state := h.Fork(&hash.BytesWithDomain{TheDomain: "RangeProofBob", Bytes: nil})
	_ = state.WriteAny(pk.N, pk.G, ped.NTilde, ped.H1, ped.H2, c1, c2, z, zPrm, t, v, w)
	e := new(big.Int).SetBytes(state.Sum())
	return e.Mod(e, q)
}
