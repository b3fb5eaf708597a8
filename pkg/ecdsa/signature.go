// Package ecdsa defines the signature type produced by the signing
// protocol, standalone verification, and DER serialization.
package ecdsa

import (
	"errors"

	"github.com/luxfi/gg18/pkg/math/curve"
)

// Signature is an ECDSA signature. R is kept as the full curve point;
// the scalar r of the (r, s) pair is R's x-coordinate mod q.
type Signature struct {
	R curve.Point
	S curve.Scalar
}

// EmptySignature returns a signature ready to be unmarshalled into.
func EmptySignature(group curve.Curve) Signature {
	return Signature{R: group.NewPoint(), S: group.NewScalar()}
}

// Verify checks the signature against the public key and the already
// hashed message m ∈ Z_q: accept iff (u1·G + u2·PK).x ≡ r (mod q) for
// u1 = m·s⁻¹, u2 = r·s⁻¹.
func (sig Signature) Verify(publicKey curve.Point, m curve.Scalar) bool {
	group := publicKey.Curve()
	r := sig.R.XScalar()
	if r == nil || r.IsZero() || sig.S.IsZero() {
		return false
	}
	sInv := group.NewScalar().Set(sig.S).Invert()
	u1 := group.NewScalar().Set(m).Mul(sInv)
	u2 := group.NewScalar().Set(r).Mul(sInv)
	RPrime := u1.ActOnBase().Add(u2.Act(publicKey))
	if RPrime.IsIdentity() {
		return false
	}
	return RPrime.XScalar().Equal(r)
}

// SerializeDER encodes the signature as a DER SEQUENCE of the two
// INTEGERs r and s.
func (sig Signature) SerializeDER() ([]byte, error) {
	r := sig.R.XScalar()
	if r == nil {
		return nil, errors.New("ecdsa: signature with identity R")
	}
	rBytes, err := r.MarshalBinary()
	if err != nil {
		return nil, err
	}
	sBytes, err := sig.S.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return EncodeDER(rBytes, sBytes), nil
}

// EncodeDER wraps two big-endian integers into a DER SEQUENCE with
// minimal two's-complement INTEGER encoding.
func EncodeDER(r, s []byte) []byte {
	derR := derInteger(r)
	derS := derInteger(s)
	out := make([]byte, 0, 2+len(derR)+len(derS))
	out = append(out, 0x30, byte(len(derR)+len(derS)))
	out = append(out, derR...)
	out = append(out, derS...)
	return out
}

// DecodeDER parses a DER SEQUENCE of two INTEGERs and returns the r
// and s values left-padded to 32 bytes.
func DecodeDER(data []byte) (r, s []byte, err error) {
	if len(data) < 2 || data[0] != 0x30 {
		return nil, nil, errors.New("ecdsa: not a DER sequence")
	}
	if int(data[1]) != len(data)-2 {
		return nil, nil, errors.New("ecdsa: truncated DER sequence")
	}
	body := data[2:]
	r, body, err = derReadInteger(body)
	if err != nil {
		return nil, nil, err
	}
	s, body, err = derReadInteger(body)
	if err != nil {
		return nil, nil, err
	}
	if len(body) != 0 {
		return nil, nil, errors.New("ecdsa: trailing DER bytes")
	}
	return r, s, nil
}

// derInteger encodes a non-negative big-endian integer: leading zero
// bytes stripped, then a 0x00 prepended iff the top bit is set.
func derInteger(v []byte) []byte {
	i := 0
	for i < len(v)-1 && v[i] == 0 {
		i++
	}
	v = v[i:]
	out := make([]byte, 0, len(v)+3)
	out = append(out, 0x02)
	if v[0]&0x80 != 0 {
		out = append(out, byte(len(v)+1), 0x00)
	} else {
		out = append(out, byte(len(v)))
	}
	return append(out, v...)
}

func derReadInteger(body []byte) (value, rest []byte, err error) {
	if len(body) < 2 || body[0] != 0x02 {
		return nil, nil, errors.New("ecdsa: expected DER integer")
	}
	length := int(body[1])
	if length == 0 || len(body) < 2+length {
		return nil, nil, errors.New("ecdsa: truncated DER integer")
	}
	raw := body[2 : 2+length]
	if raw[0]&0x80 != 0 {
		return nil, nil, errors.New("ecdsa: negative DER integer")
	}
	for len(raw) > 1 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > 32 {
		return nil, nil, errors.New("ecdsa: integer too large")
	}
	value = make([]byte, 32)
	copy(value[32-len(raw):], raw)
	return value, body[2+length:], nil
}
