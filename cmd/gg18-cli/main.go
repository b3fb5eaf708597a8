// Command gg18-cli drives the GG18 protocols with all parties running
// in-process, for experimentation and shard management.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/gg18/internal/test"
	"github.com/luxfi/gg18/pkg/ecdsa"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pool"
	"github.com/luxfi/gg18/pkg/protocol"
	"github.com/luxfi/gg18/protocols/gg18"
	"github.com/luxfi/gg18/protocols/gg18/config"
	"github.com/luxfi/gg18/protocols/gg18/keygen"
	"github.com/luxfi/gg18/protocols/gg18/sign"
)

var (
	// Global flags
	shardDir string
	verbose  bool

	// Protocol options
	threshold int
	parties   int
	signerA   string
	signerB   string
	pubKeyHex string

	rootCmd = &cobra.Command{
		Use:   "gg18-cli",
		Short: "CLI tool for GG18 threshold ECDSA",
		Long: `Generate GG18 key shards and produce two-party threshold ECDSA
signatures over secp256k1, with every party simulated in-process.`,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate key shards",
		Long:  `Run distributed key generation and persist one shard file per party`,
		RunE:  runKeygen,
	}

	signCmd = &cobra.Command{
		Use:   "sign <message>",
		Short: "Create a threshold signature",
		Long:  `Sign a message with two shards; prints the DER signature in hex`,
		Args:  cobra.ExactArgs(1),
		RunE:  runSign,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify <message> <der-signature-hex>",
		Short: "Verify a signature",
		Long:  `Verify a DER signature against a public key and message`,
		Args:  cobra.ExactArgs(2),
		RunE:  runVerify,
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Display shard information",
		Long:  `Display the participants and public key of the stored shards`,
		RunE:  runInfo,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&shardDir, "shard-dir", "d", "./gg18-data", "Shard directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	keygenCmd.Flags().IntVarP(&parties, "parties", "n", 3, "Number of parties")
	keygenCmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "Signing quorum size")

	signCmd.Flags().StringVar(&signerA, "signer-a", "a", "First signer ID")
	signCmd.Flags().StringVar(&signerB, "signer-b", "b", "Second signer ID")

	verifyCmd.Flags().StringVar(&pubKeyHex, "public-key", "", "Compressed public key in hex (default: from shards)")

	rootCmd.AddCommand(keygenCmd, signCmd, verifyCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if parties < 2 || threshold < 2 || threshold > parties {
		return fmt.Errorf("invalid parameters: %d parties, threshold %d", parties, threshold)
	}
	if err := os.MkdirAll(shardDir, 0o700); err != nil {
		return err
	}

	group := curve.Secp256k1{}
	ids := test.PartyIDs(parties)
	pl := pool.NewPool(0)
	defer pl.TearDown()

	sessionID := make([]byte, 32)
	if _, err := rand.Read(sessionID); err != nil {
		return err
	}

	network := test.NewNetwork(ids)
	configs := make(map[party.ID]*config.Config, parties)
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
	if err := g.Wait(); err != nil {
		return err
	}

	for id, cfg := range configs {
		data, err := cfg.MarshalBinary()
		if err != nil {
			return err
		}
		path := shardPath(id)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return err
		}
		if verbose {
			fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
		}
	}

	pk, err := configs[ids[0]].PublicKey.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("generated %d shards, threshold %d\n", parties, threshold)
	fmt.Printf("public key: %s\n", hex.EncodeToString(pk))
	return nil
}

func runSign(cmd *cobra.Command, args []string) error {
	message := []byte(args[0])
	digest := sha3.Sum256(message)

	cfgA, err := loadShard(party.ID(signerA))
	if err != nil {
		return err
	}
	cfgB, err := loadShard(party.ID(signerB))
	if err != nil {
		return err
	}

	signers := party.NewIDSlice([]party.ID{cfgA.ID, cfgB.ID})
	pl := pool.NewPool(0)
	defer pl.TearDown()

	// r = 0 or s = 0 are not faults, just bad luck with the nonces
	var sig ecdsa.Signature
	for attempt := 0; ; attempt++ {
		var err error
		sig, err = signAttempt(pl, signers, cfgA, cfgB, digest[:])
		if err == nil {
			break
		}
		if gg18.IsDegenerate(err) && attempt < 2 {
			if verbose {
				fmt.Fprintf(os.Stderr, "degenerate signature, retrying: %v\n", err)
			}
			continue
		}
		return err
	}

	der, err := sig.SerializeDER()
	if err != nil {
		return err
	}
	fmt.Printf("signature: %s\n", hex.EncodeToString(der))
	return nil
}

func signAttempt(pl *pool.Pool, signers party.IDSlice, cfgA, cfgB *config.Config, digest []byte) (ecdsa.Signature, error) {
	sessionID := make([]byte, 32)
	if _, err := rand.Read(sessionID); err != nil {
		return ecdsa.Signature{}, err
	}

	network := test.NewNetwork(signers)
	sigs := make(chan ecdsa.Signature, 2)
	var g errgroup.Group
	for _, cfg := range []*config.Config{cfgA, cfgB} {
		cfg := cfg
		g.Go(func() error {
			h, err := protocol.NewMultiHandler(
				sign.Start(cfg, signers, digest, pl, rand.Reader), sessionID)
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

func runVerify(cmd *cobra.Command, args []string) error {
	message := []byte(args[0])
	der, err := hex.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}

	group := curve.Secp256k1{}
	var pk curve.Point
	if pubKeyHex != "" {
		pkBytes, err := hex.DecodeString(pubKeyHex)
		if err != nil {
			return fmt.Errorf("invalid public key hex: %w", err)
		}
		pk = group.NewPoint()
		if err := pk.UnmarshalBinary(pkBytes); err != nil {
			return err
		}
	} else {
		cfg, err := firstShard()
		if err != nil {
			return err
		}
		pk = cfg.PublicKey
	}

	rBytes, sBytes, err := ecdsa.DecodeDER(der)
	if err != nil {
		return err
	}
	digest := sha3.Sum256(message)
	ok, err := verifyRS(group, pk, digest[:], rBytes, sBytes)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("signature does not verify")
	}
	fmt.Println("signature OK")
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := firstShard()
	if err != nil {
		return err
	}
	pk, err := cfg.PublicKey.MarshalBinary()
	if err != nil {
		return err
	}
	fmt.Printf("parties:    %d\n", cfg.PartyIDs.Len())
	fmt.Printf("threshold:  %d\n", cfg.Threshold)
	fmt.Printf("public key: %s\n", hex.EncodeToString(pk))
	for _, id := range cfg.PartyIDs {
		fmt.Printf("  party %s\n", id)
	}
	return nil
}

func shardPath(id party.ID) string {
	return filepath.Join(shardDir, fmt.Sprintf("shard-%s.bin", id))
}

func loadShard(id party.ID) (*config.Config, error) {
	data, err := os.ReadFile(shardPath(id))
	if err != nil {
		return nil, fmt.Errorf("loading shard for %s: %w", id, err)
	}
	cfg := &config.Config{Group: curve.Secp256k1{}}
	if err := cfg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstShard() (*config.Config, error) {
	entries, err := os.ReadDir(shardDir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "shard-") && strings.HasSuffix(name, ".bin") {
			id := strings.TrimSuffix(strings.TrimPrefix(name, "shard-"), ".bin")
			return loadShard(party.ID(id))
		}
	}
	return nil, fmt.Errorf("no shards in %s", shardDir)
}

// verifyRS checks an (r, s) pair decoded from DER against pk and the
// message digest.
func verifyRS(group curve.Curve, pk curve.Point, digest, rBytes, sBytes []byte) (bool, error) {
	rScalar := group.NewScalar()
	if err := rScalar.UnmarshalBinary(rBytes); err != nil {
		return false, err
	}
	sScalar := group.NewScalar()
	if err := sScalar.UnmarshalBinary(sBytes); err != nil {
		return false, err
	}
	if rScalar.IsZero() || sScalar.IsZero() {
		return false, nil
	}
	m := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(digest))
	sInv := group.NewScalar().Set(sScalar).Invert()
	u1 := group.NewScalar().Set(m).Mul(sInv)
	u2 := group.NewScalar().Set(rScalar).Mul(sInv)
	R := u1.ActOnBase().Add(u2.Act(pk))
	if R.IsIdentity() {
		return false, nil
	}
	return R.XScalar().Equal(rScalar), nil
}
