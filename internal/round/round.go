// Package round defines the state-machine framework shared by all
// protocols: a protocol execution is a chain of rounds, each consuming
// the messages of its peers and producing the next round.
package round

import (
	"errors"

	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/math/curve"
	"github.com/luxfi/gg18/pkg/party"
)

// Number is the index of a round in a protocol, starting at 1.
type Number uint16

// Content is the payload of a round message.
type Content interface {
	RoundNumber() Number
}

// BroadcastContent is implemented by payloads sent to every party.
type BroadcastContent interface {
	Content
	Reliable() bool
}

// NormalBroadcastContent marks a payload whose Reliable reports false.
// The protocol handler does not read Reliable: it applies the echo hash
// check of the following round to every broadcast round.
type NormalBroadcastContent struct{}

// Reliable implements BroadcastContent.
func (NormalBroadcastContent) Reliable() bool { return false }

// ReliableBroadcastContent marks a payload whose Reliable reports true.
// Its round is subject to the echo hash check in the following round,
// as every broadcast round is.
type ReliableBroadcastContent struct{}

// Reliable implements BroadcastContent.
func (ReliableBroadcastContent) Reliable() bool { return true }

// Message is a round message between two parties. An empty To means
// broadcast.
type Message struct {
	From      party.ID
	To        party.ID
	Broadcast bool
	Content   Content
}

// Session is the interface implemented by every round of a protocol.
type Session interface {
	// Group returns the elliptic curve group of the protocol.
	Group() curve.Curve
	// Hash returns a cloned hash state bound to the session.
	Hash() *hash.Hash
	// ProtocolID identifies the protocol this round belongs to.
	ProtocolID() string
	// FinalRoundNumber is the number of rounds before the result.
	FinalRoundNumber() Number
	// SSID is the unique session identifier.
	SSID() []byte
	// SelfID is this party's ID.
	SelfID() party.ID
	// PartyIDs lists all participants.
	PartyIDs() party.IDSlice
	// OtherPartyIDs lists all participants except this party.
	OtherPartyIDs() party.IDSlice
	// Threshold is the number of parties required to sign.
	Threshold() int
	// N is the number of participants.
	N() int
	// Number is this round's index.
	Number() Number
	// MessageContent returns an empty payload for unmarshalling a
	// directed message of this round, or nil if none is expected.
	MessageContent() Content
	// VerifyMessage checks a peer's directed message before storage.
	VerifyMessage(msg Message) error
	// StoreMessage saves a verified directed message.
	StoreMessage(msg Message) error
	// Finalize runs once all expected messages have been received.
	// Outgoing messages are written to out, and the next round is
	// returned.
	Finalize(out chan<- *Message) (Session, error)
}

// BroadcastRound is implemented by rounds that expect a broadcast
// message from every party.
type BroadcastRound interface {
	// StoreBroadcastMessage saves a peer's broadcast message.
	StoreBroadcastMessage(msg Message) error
	// BroadcastContent returns an empty payload for unmarshalling.
	BroadcastContent() BroadcastContent
}

var (
	// ErrInvalidContent is returned when a message payload does not
	// have the expected type.
	ErrInvalidContent = errors.New("round: message content has wrong type")
	// ErrNilFields is returned when a message payload has missing
	// fields.
	ErrNilFields = errors.New("round: message content has nil fields")
	// ErrDuplicateContent is returned when a party sends twice for the
	// same slot.
	ErrDuplicateContent = errors.New("round: duplicate message for slot")
)
