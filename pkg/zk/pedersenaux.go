// Package zk implements the zero-knowledge proofs used by the
// protocols: a Schnorr proof of discrete-log knowledge, a proof of
// correct Paillier modulus generation, and the two MtA range proofs.
package zk

import (
	"errors"
	"io"
	"math/big"

	"github.com/luxfi/gg18/pkg/math/sample"
	"github.com/luxfi/gg18/pkg/pool"
)

// Parameters are auxiliary ring-Pedersen parameters (Ñ, h1, h2) used as
// the commitment scheme inside the range proofs. Each party generates
// its own set at key generation; provers commit under the verifier's
// parameters.
type Parameters struct {
	NTilde *big.Int
	H1     *big.Int
	H2     *big.Int
}

// GenerateParameters produces fresh ring-Pedersen parameters. Ñ is a
// product of two safe primes; h1 is a random quadratic residue and h2 a
// random power of h1.
func GenerateParameters(rd io.Reader, bits int, pl *pool.Pool) *Parameters {
	primeBits := bits / 2
	var p, q *big.Int
	for {
		p = sample.SafePrime(rd, primeBits, pl)
		q = sample.SafePrime(rd, primeBits, pl)
		if p.Cmp(q) != 0 {
			break
		}
	}
	nTilde := new(big.Int).Mul(p, q)

	f := sample.UnitModN(rd, nTilde)
	h1 := new(big.Int).Mul(f, f)
	h1.Mod(h1, nTilde)

	pPrime := new(big.Int).Rsh(p, 1)
	qPrime := new(big.Int).Rsh(q, 1)
	pqPrime := new(big.Int).Mul(pPrime, qPrime)
	alpha := sample.ModN(rd, pqPrime)
	h2 := new(big.Int).Exp(h1, alpha, nTilde)

	return &Parameters{NTilde: nTilde, H1: h1, H2: h2}
}

// Validate performs the structural checks a receiver can make on
// another party's parameters.
func (p *Parameters) Validate() error {
	if p == nil || p.NTilde == nil || p.H1 == nil || p.H2 == nil {
		return errors.New("zk: missing ring-Pedersen parameters")
	}
	if p.NTilde.Sign() <= 0 || p.NTilde.Bit(0) != 1 {
		return errors.New("zk: Ñ must be odd and positive")
	}
	one := big.NewInt(1)
	for _, h := range []*big.Int{p.H1, p.H2} {
		if h.Sign() <= 0 || h.Cmp(p.NTilde) >= 0 {
			return errors.New("zk: h out of range")
		}
		if h.Cmp(one) == 0 {
			return errors.New("zk: trivial h")
		}
		if new(big.Int).GCD(nil, nil, h, p.NTilde).Cmp(one) != 0 {
			return errors.New("zk: h not a unit")
		}
	}
	if p.H1.Cmp(p.H2) == 0 {
		return errors.New("zk: h1 and h2 must differ")
	}
	return nil
}

// commit computes h1^a · h2^b mod Ñ.
func (p *Parameters) commit(a, b *big.Int) *big.Int {
	left := new(big.Int).Exp(p.H1, a, p.NTilde)
	right := new(big.Int).Exp(p.H2, b, p.NTilde)
	out := new(big.Int).Mul(left, right)
	return out.Mod(out, p.NTilde)
}
