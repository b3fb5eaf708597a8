// Package sample centralizes random sampling of scalars, residues and
// primes. Every function takes an explicit io.Reader so that tests can
// inject deterministic randomness; production callers pass
// crypto/rand.Reader.
package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/pool"
)

// Scalar samples a uniform nonzero element of Z_q.
func Scalar(rd io.Reader, group curve.Curve) curve.Scalar {
	// 16 extra bytes make the mod-q bias negligible.
	buf := make([]byte, group.SafeScalarBytes()+16)
	for {
		mustRead(rd, buf)
		s := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
		if !s.IsZero() {
			return s
		}
	}
}

// ModN samples a uniform element of [0, n).
func ModN(rd io.Reader, n *big.Int) *big.Int {
	out, err := rand.Int(rd, n)
	if err != nil {
		panic("sample: rng failure: " + err.Error())
	}
	return out
}

// UnitModN samples a uniform element of the multiplicative group Z*_n.
func UnitModN(rd io.Reader, n *big.Int) *big.Int {
	gcd := new(big.Int)
	one := big.NewInt(1)
	for {
		r := ModN(rd, n)
		if r.Sign() == 0 {
			continue
		}
		if gcd.GCD(nil, nil, r, n).Cmp(one) == 0 {
			return r
		}
	}
}

// Prime samples a prime with exactly the given bit length.
func Prime(rd io.Reader, bits int) *big.Int {
	p, err := rand.Prime(rd, bits)
	if err != nil {
		panic("sample: prime generation failure: " + err.Error())
	}
	return p
}

// PaillierPrimes samples two distinct primes of bits/2+1 bits each, whose
// product is longer than the requested bit length. The pool, when
// non-nil, parallelizes the search.
func PaillierPrimes(rd io.Reader, bits int, pl *pool.Pool) (p, q *big.Int) {
	primeBits := bits/2 + 1
	for {
		results := pl.Search(2, func() interface{} {
			return Prime(rd, primeBits)
		})
		p, q = results[0].(*big.Int), results[1].(*big.Int)
		if p.Cmp(q) == 0 {
			continue
		}
		n := new(big.Int).Mul(p, q)
		if n.BitLen() > bits {
			return p, q
		}
	}
}

// SafePrime samples a safe prime p = 2p' + 1 with the given bit length.
func SafePrime(rd io.Reader, bits int, pl *pool.Pool) *big.Int {
	results := pl.Search(1, func() interface{} {
		p := Prime(rd, bits)
		pPrime := new(big.Int).Rsh(p, 1)
		if pPrime.ProbablyPrime(20) {
			return p
		}
		return nil
	})
	return results[0].(*big.Int)
}

func mustRead(rd io.Reader, buf []byte) {
	if _, err := io.ReadFull(rd, buf); err != nil {
		panic("sample: rng failure: " + err.Error())
	}
}
