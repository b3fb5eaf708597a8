package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/gg18/pkg/paillier"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/zk"
)

// Binary layout of a persisted shard:
//
//	u32 LE   party index in the sorted participant list
//	32 B     x_i, big-endian
//	33 B     X_i, compressed
//	33 B     PK, compressed
//	LP       λ, μ                 (Paillier secret key)
//	LP       N, g                 (own Paillier public key)
//	LP       Ñ, h1, h2            (own ring-Pedersen parameters)
//	u32 LE   peer count, then per peer in sorted order:
//	           LP N, g, Ñ, h1, h2, X_j
//	u32 LE   party count, then per party: LP id bytes
//	u32 LE   threshold
//
// where LP is a u32 LE byte length followed by big-endian bytes.

// MarshalBinary implements encoding.BinaryMarshaler.
func (c *Config) MarshalBinary() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var out []byte
	out = appendUint32(out, uint32(c.Index()))

	xi, err := c.ECDSA.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out = append(out, xi...)

	Xi, err := c.Public[c.ID].ECDSA.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out = append(out, Xi...)

	pk, err := c.PublicKey.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out = append(out, pk...)

	out = appendBig(out, c.Paillier.Lambda)
	out = appendBig(out, c.Paillier.Mu)
	out = appendBig(out, c.Paillier.N)
	out = appendBig(out, c.Paillier.G)
	out = appendBig(out, c.Pedersen.NTilde)
	out = appendBig(out, c.Pedersen.H1)
	out = appendBig(out, c.Pedersen.H2)

	out = appendUint32(out, uint32(len(c.PartyIDs)-1))
	for _, id := range c.PartyIDs {
		if id == c.ID {
			continue
		}
		p := c.Public[id]
		out = appendBig(out, p.Paillier.N)
		out = appendBig(out, p.Paillier.G)
		out = appendBig(out, p.Pedersen.NTilde)
		out = appendBig(out, p.Pedersen.H1)
		out = appendBig(out, p.Pedersen.H2)
		Xj, err := p.ECDSA.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = appendBytes(out, Xj)
	}

	out = appendUint32(out, uint32(len(c.PartyIDs)))
	for _, id := range c.PartyIDs {
		out = appendBytes(out, id.Bytes())
	}
	out = appendUint32(out, uint32(c.Threshold))
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Group must be
// set on the receiver beforehand.
func (c *Config) UnmarshalBinary(data []byte) error {
	if c.Group == nil {
		return errors.New("config: group must be set before unmarshalling")
	}
	r := reader{data: data}

	index, err := r.uint32()
	if err != nil {
		return err
	}

	xiBytes, err := r.bytes(32)
	if err != nil {
		return err
	}
	xi := c.Group.NewScalar()
	if err := xi.UnmarshalBinary(xiBytes); err != nil {
		return fmt.Errorf("config: secret share: %w", err)
	}

	XiBytes, err := r.bytes(33)
	if err != nil {
		return err
	}
	Xi := c.Group.NewPoint()
	if err := Xi.UnmarshalBinary(XiBytes); err != nil {
		return fmt.Errorf("config: public share: %w", err)
	}

	pkBytes, err := r.bytes(33)
	if err != nil {
		return err
	}
	pk := c.Group.NewPoint()
	if err := pk.UnmarshalBinary(pkBytes); err != nil {
		return fmt.Errorf("config: public key: %w", err)
	}

	bigs := make([]*big.Int, 7)
	for i := range bigs {
		if bigs[i], err = r.big(); err != nil {
			return err
		}
	}
	lambda, mu, n, g := bigs[0], bigs[1], bigs[2], bigs[3]
	ownPed := &zk.Parameters{NTilde: bigs[4], H1: bigs[5], H2: bigs[6]}

	peerCount, err := r.uint32()
	if err != nil {
		return err
	}
	peers := make([]*Public, peerCount)
	for i := range peers {
		vals := make([]*big.Int, 5)
		for j := range vals {
			if vals[j], err = r.big(); err != nil {
				return err
			}
		}
		XjBytes, err := r.lenBytes()
		if err != nil {
			return err
		}
		Xj := c.Group.NewPoint()
		if err := Xj.UnmarshalBinary(XjBytes); err != nil {
			return fmt.Errorf("config: peer public share: %w", err)
		}
		peers[i] = &Public{
			ECDSA:    Xj,
			Paillier: &paillier.PublicKey{N: vals[0], G: vals[1]},
			Pedersen: &zk.Parameters{NTilde: vals[2], H1: vals[3], H2: vals[4]},
		}
	}

	partyCount, err := r.uint32()
	if err != nil {
		return err
	}
	ids := make([]party.ID, partyCount)
	for i := range ids {
		idBytes, err := r.lenBytes()
		if err != nil {
			return err
		}
		ids[i] = party.ID(idBytes)
	}
	threshold, err := r.uint32()
	if err != nil {
		return err
	}
	if len(r.data) != 0 {
		return errors.New("config: trailing bytes")
	}

	partyIDs := party.NewIDSlice(ids)
	if int(index) >= partyIDs.Len() {
		return errors.New("config: share index out of range")
	}
	if int(peerCount) != partyIDs.Len()-1 {
		return errors.New("config: peer count mismatch")
	}
	selfID := partyIDs[index]

	public := make(map[party.ID]*Public, partyIDs.Len())
	public[selfID] = &Public{
		ECDSA:    Xi,
		Paillier: &paillier.PublicKey{N: n, G: g},
		Pedersen: ownPed,
	}
	peerIdx := 0
	for _, id := range partyIDs {
		if id == selfID {
			continue
		}
		public[id] = peers[peerIdx]
		peerIdx++
	}

	c.ID = selfID
	c.Threshold = int(threshold)
	c.ECDSA = xi
	c.PublicKey = pk
	c.Paillier = &paillier.SecretKey{
		PublicKey: paillier.PublicKey{N: n, G: g},
		Lambda:    lambda,
		Mu:        mu,
	}
	c.Pedersen = ownPed
	c.Public = public
	c.PartyIDs = partyIDs
	return c.Validate()
}

// MarshalCBOR implements cbor.Marshaler, the transport encoding used
// when a shard travels between trusted components.
func (c *Config) MarshalCBOR() ([]byte, error) {
	data, err := c.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(data)
}

// UnmarshalCBOR implements cbor.Unmarshaler. Group must be set.
func (c *Config) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return c.UnmarshalBinary(raw)
}

func appendUint32(out []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func appendBytes(out, b []byte) []byte {
	out = appendUint32(out, uint32(len(b)))
	return append(out, b...)
}

func appendBig(out []byte, v *big.Int) []byte {
	return appendBytes(out, v.Bytes())
}

type reader struct{ data []byte }

func (r *reader) uint32() (uint32, error) {
	if len(r.data) < 4 {
		return 0, errors.New("config: truncated input")
	}
	v := binary.LittleEndian.Uint32(r.data)
	r.data = r.data[4:]
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if len(r.data) < n {
		return nil, errors.New("config: truncated input")
	}
	out := r.data[:n]
	r.data = r.data[n:]
	return out, nil
}

func (r *reader) lenBytes() ([]byte, error) {
	n, err := r.uint32()
	if err != nil {
		return nil, err
	}
	return r.bytes(int(n))
}

func (r *reader) big() (*big.Int, error) {
	b, err := r.lenBytes()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
