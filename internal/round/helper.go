package round

import (
	"errors"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/pool"
)

// Info is the static session information a protocol starts from.
type Info struct {
	// ProtocolID identifies the protocol.
	ProtocolID string
	// FinalRoundNumber is the number of rounds before the result.
	FinalRoundNumber Number
	// SelfID is the executing party.
	SelfID party.ID
	// PartyIDs are all participants, in any order.
	PartyIDs []party.ID
	// Threshold is the number of parties required to sign.
	Threshold int
	// Group is the elliptic curve group.
	Group curve.Curve
}

// Helper implements the session bookkeeping shared by all rounds of a
// protocol execution; concrete rounds embed a *Helper.
type Helper struct {
	info     Info
	partyIDs party.IDSlice
	otherIDs party.IDSlice
	ssid     []byte
	hash     *hash.Hash
	pool     *pool.Pool
}

// NewSession validates the session information, derives the SSID and
// returns the Helper for the first round. An optional sessionID makes
// this execution unique among executions with the same participants.
func NewSession(info Info, sessionID []byte, pl *pool.Pool) (*Helper, error) {
	partyIDs := party.NewIDSlice(info.PartyIDs)
	if !partyIDs.Valid() {
		return nil, errors.New("round: party IDs contain duplicates or empty entries")
	}
	if !partyIDs.Contains(info.SelfID) {
		return nil, errors.New("round: self ID not in party IDs")
	}
	if info.Threshold < 2 {
		return nil, errors.New("round: threshold must be at least 2")
	}
	if info.Threshold > partyIDs.Len() {
		return nil, errors.New("round: threshold exceeds number of parties")
	}
	if info.Group == nil {
		return nil, errors.New("round: group not set")
	}
	for _, id := range partyIDs {
		if id.Scalar(info.Group).IsZero() {
			return nil, errors.New("round: party ID maps to the zero scalar")
		}
	}

	h := hash.New()
	_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(info.ProtocolID)})
	_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Group", Bytes: []byte(info.Group.Name())})
	if sessionID != nil {
		_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "SessionID", Bytes: sessionID})
	}
	_ = h.WriteAny(uint64(info.Threshold))
	for _, id := range partyIDs {
		_ = h.WriteAny(&hash.BytesWithDomain{TheDomain: "Party", Bytes: id.Bytes()})
	}
	ssid := h.Sum()

	return &Helper{
		info:     info,
		partyIDs: partyIDs,
		otherIDs: partyIDs.Remove(info.SelfID),
		ssid:     ssid,
		hash:     h,
		pool:     pl,
	}, nil
}

// Group implements Session.
func (h *Helper) Group() curve.Curve { return h.info.Group }

// Hash returns a cloned hash state bound to the session transcript.
func (h *Helper) Hash() *hash.Hash { return h.hash.Clone() }

// HashForID returns a session hash state additionally bound to a
// party, for proofs whose transcript must name the prover.
func (h *Helper) HashForID(id party.ID) *hash.Hash {
	return h.hash.Fork(&hash.BytesWithDomain{TheDomain: "Prover", Bytes: id.Bytes()})
}

// ProtocolID implements Session.
func (h *Helper) ProtocolID() string { return h.info.ProtocolID }

// FinalRoundNumber implements Session.
func (h *Helper) FinalRoundNumber() Number { return h.info.FinalRoundNumber }

// SSID implements Session.
func (h *Helper) SSID() []byte { return h.ssid }

// SelfID implements Session.
func (h *Helper) SelfID() party.ID { return h.info.SelfID }

// PartyIDs implements Session.
func (h *Helper) PartyIDs() party.IDSlice { return h.partyIDs }

// OtherPartyIDs implements Session.
func (h *Helper) OtherPartyIDs() party.IDSlice { return h.otherIDs }

// Threshold implements Session.
func (h *Helper) Threshold() int { return h.info.Threshold }

// N implements Session.
func (h *Helper) N() int { return h.partyIDs.Len() }

// Pool returns the worker pool, possibly nil.
func (h *Helper) Pool() *pool.Pool { return h.pool }

// BroadcastMessage queues a broadcast of content to all parties.
func (h *Helper) BroadcastMessage(out chan<- *Message, content BroadcastContent) error {
	msg := &Message{From: h.info.SelfID, Broadcast: true, Content: content}
	select {
	case out <- msg:
		return nil
	default:
		return errors.New("round: out channel full")
	}
}

// SendMessage queues a directed message to a single party.
func (h *Helper) SendMessage(out chan<- *Message, content Content, to party.ID) error {
	msg := &Message{From: h.info.SelfID, To: to, Content: content}
	select {
	case out <- msg:
		return nil
	default:
		return errors.New("round: out channel full")
	}
}

// ResultRound wraps a protocol result into a terminal round.
func (h *Helper) ResultRound(result interface{}) Session {
	return &Output{Helper: h, Result: result}
}

// AbortRound wraps a protocol failure into a terminal round,
// optionally naming the culprits.
func (h *Helper) AbortRound(err error, culprits ...party.ID) Session {
	return &Abort{Helper: h, Culprits: culprits, Err: err}
}
