package gg18_test

import (
	"crypto/rand"
	"io"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/gg18/internal/test"
	"github.com/luxfi/gg18/pkg/ecdsa"
	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/math/polynomial"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pool"
	"github.com/luxfi/gg18/pkg/protocol"
	"github.com/luxfi/gg18/protocols/gg18/config"
	"github.com/luxfi/gg18/protocols/gg18/keygen"
	"github.com/luxfi/gg18/protocols/gg18/sign"
)

var _ = Describe("GG18", Ordered, func() {
	const (
		n         = 3
		threshold = 2
	)
	group := curve.Secp256k1{}
	var (
		pl      *pool.Pool
		ids     party.IDSlice
		configs map[party.ID]*config.Config
	)

	BeforeAll(func() {
		pl = pool.NewPool(0)
		ids = test.PartyIDs(n)
		configs = make(map[party.ID]*config.Config, n)

		sessionID := make([]byte, 32)
		_, err := rand.Read(sessionID)
		Expect(err).NotTo(HaveOccurred())

		network := test.NewNetwork(ids)
		var mu sync.Mutex
		var g errgroup.Group
		for _, id := range ids {
			id := id
			g.Go(func() error {
				h, err := protocol.NewMultiHandler(
					keygen.Start(group, id, ids, threshold, pl, rand.Reader), sessionID)
				if err != nil {
					return err
				}
				test.HandlerLoop(id, h, network)
				result, err := h.Result()
				if err != nil {
					return err
				}
				mu.Lock()
				configs[id] = result.(*config.Config)
				mu.Unlock()
				return nil
			})
		}
		Expect(g.Wait()).To(Succeed())
	})

	AfterAll(func() {
		pl.TearDown()
	})

	signWith := func(signers party.IDSlice, digest []byte, rdFor func(party.ID) io.Reader) (ecdsa.Signature, error) {
		sessionID := make([]byte, 32)
		_, err := rand.Read(sessionID)
		Expect(err).NotTo(HaveOccurred())

		network := test.NewNetwork(signers)
		sigs := make(chan ecdsa.Signature, len(signers))
		var g errgroup.Group
		for _, id := range signers {
			cfg := configs[id]
			rd := rdFor(id)
			g.Go(func() error {
				h, err := protocol.NewMultiHandler(
					sign.Start(cfg, signers, digest, pl, rd), sessionID)
				if err != nil {
					return err
				}
				test.HandlerLoop(cfg.ID, h, network)
				result, err := h.Result()
				if err != nil {
					return err
				}
				sigs <- result.(ecdsa.Signature)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return ecdsa.Signature{}, err
		}
		return <-sigs, nil
	}

	signOnce := func(signers party.IDSlice, digest []byte) (ecdsa.Signature, error) {
		return signWith(signers, digest, func(party.ID) io.Reader { return rand.Reader })
	}

	Describe("key generation", func() {
		It("produces a valid shard for every party", func() {
			for _, id := range ids {
				Expect(configs[id].Validate()).To(Succeed())
			}
		})

		It("agrees on the public key", func() {
			pk := configs[ids[0]].PublicKey
			for _, id := range ids[1:] {
				Expect(configs[id].PublicKey.Equal(pk)).To(BeTrue())
			}
		})

		It("agrees on every public share", func() {
			for _, id := range ids {
				expected := configs[id].ECDSA.ActOnBase()
				for _, other := range ids {
					Expect(configs[other].Public[id].ECDSA.Equal(expected)).To(BeTrue())
				}
			}
		})

		It("recovers the same secret from any quorum", func() {
			shares := map[party.ID]curve.Scalar{
				ids[0]: configs[ids[0]].ECDSA,
				ids[1]: configs[ids[1]].ECDSA,
			}
			x := polynomial.InterpolateConstant(group, shares)
			Expect(x.ActOnBase().Equal(configs[ids[0]].PublicKey)).To(BeTrue())

			shares = map[party.ID]curve.Scalar{
				ids[1]: configs[ids[1]].ECDSA,
				ids[2]: configs[ids[2]].ECDSA,
			}
			other := polynomial.InterpolateConstant(group, shares)
			Expect(other.Equal(x)).To(BeTrue())
		})

		It("round-trips shards through the binary format", func() {
			data, err := configs[ids[0]].MarshalBinary()
			Expect(err).NotTo(HaveOccurred())

			restored := &config.Config{Group: group}
			Expect(restored.UnmarshalBinary(data)).To(Succeed())
			Expect(restored.ID).To(Equal(ids[0]))
			Expect(restored.ECDSA.Equal(configs[ids[0]].ECDSA)).To(BeTrue())
			Expect(restored.PublicKey.Equal(configs[ids[0]].PublicKey)).To(BeTrue())
		})
	})

	Describe("two-party signing", func() {
		digestOf := func(msg string) []byte {
			d := sha3.Sum256([]byte(msg))
			return d[:]
		}

		It("produces a signature that verifies", func() {
			signers := party.NewIDSlice([]party.ID{ids[0], ids[1]})
			digest := digestOf("hello threshold world")
			sig, err := signOnce(signers, digest)
			Expect(err).NotTo(HaveOccurred())

			m := group.NewScalar()
			Expect(m.UnmarshalBinary(digest)).To(Succeed())
			Expect(sig.Verify(configs[ids[0]].PublicKey, m)).To(BeTrue())
		})

		It("signs with every quorum pair", func() {
			digest := digestOf("quorum independence")
			m := group.NewScalar()
			Expect(m.UnmarshalBinary(digest)).To(Succeed())

			for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
				signers := party.NewIDSlice([]party.ID{ids[pair[0]], ids[pair[1]]})
				sig, err := signOnce(signers, digest)
				Expect(err).NotTo(HaveOccurred())
				Expect(sig.Verify(configs[ids[0]].PublicKey, m)).To(BeTrue())
			}
		})

		It("rejects a flipped signature bit", func() {
			digest := digestOf("bit flip")
			signers := party.NewIDSlice([]party.ID{ids[0], ids[2]})
			sig, err := signOnce(signers, digest)
			Expect(err).NotTo(HaveOccurred())

			m := group.NewScalar()
			Expect(m.UnmarshalBinary(digest)).To(Succeed())
			sBytes, err := sig.S.MarshalBinary()
			Expect(err).NotTo(HaveOccurred())
			sBytes[len(sBytes)-1] ^= 0x01
			Expect(sig.S.UnmarshalBinary(sBytes)).To(Succeed())
			Expect(sig.Verify(configs[ids[0]].PublicKey, m)).To(BeFalse())
		})

		It("derives r only from the injected randomness", func() {
			// with fixed per-party randomness, k and γ are fixed, so
			// both runs must land on the same R
			seeded := func(id party.ID) io.Reader {
				return hash.New(&hash.BytesWithDomain{
					TheDomain: "rng", Bytes: []byte(id),
				}).Digest()
			}
			signers := party.NewIDSlice([]party.ID{ids[0], ids[1]})

			sig1, err := signWith(signers, digestOf("replay one"), seeded)
			Expect(err).NotTo(HaveOccurred())
			sig2, err := signWith(signers, digestOf("replay two"), seeded)
			Expect(err).NotTo(HaveOccurred())

			Expect(sig1.R.Equal(sig2.R)).To(BeTrue())
			Expect(sig1.S.Equal(sig2.S)).To(BeFalse())
		})

		It("serializes to DER and back", func() {
			digest := digestOf("serialization")
			signers := party.NewIDSlice([]party.ID{ids[1], ids[2]})
			sig, err := signOnce(signers, digest)
			Expect(err).NotTo(HaveOccurred())

			der, err := sig.SerializeDER()
			Expect(err).NotTo(HaveOccurred())
			rBytes, sBytes, err := ecdsa.DecodeDER(der)
			Expect(err).NotTo(HaveOccurred())

			wantR, _ := sig.R.XScalar().MarshalBinary()
			wantS, _ := sig.S.MarshalBinary()
			Expect(rBytes).To(Equal(wantR))
			Expect(sBytes).To(Equal(wantS))
		})
	})
})
