// Package protocol exposes a generic interface for executing the
// multi-round protocols of this module over an arbitrary transport.
package protocol

import (
	"github.com/luxfi/gg18/internal/round"
	"github.com/luxfi/gg18/pkg/hash"
	"github.com/luxfi/gg18/pkg/party"
)

// Message is the transport envelope of a round message. The Data field
// is the CBOR encoding of the round content; everything else routes and
// orders it.
type Message struct {
	// SSID is the session this message belongs to.
	SSID []byte
	// From is the sender.
	From party.ID
	// To is the recipient; empty for broadcast.
	To party.ID
	// Protocol identifies the protocol.
	Protocol string
	// RoundNumber is the round that consumes this message. 0 signals
	// an abort by the sender.
	RoundNumber round.Number
	// Data is the CBOR-encoded content.
	Data []byte
	// Broadcast indicates the message must be delivered to all
	// parties, reliably.
	Broadcast bool
	// BroadcastVerification echoes the hash of the previous round's
	// broadcasts so that peers can detect inconsistent deliveries.
	BroadcastVerification []byte
}

// IsFor reports whether id should receive this message.
func (msg *Message) IsFor(id party.ID) bool {
	if msg.From == id {
		return false
	}
	if msg.Broadcast || msg.To == "" {
		return true
	}
	return msg.To == id
}

// Hash returns a digest of the message, used for broadcast echo
// verification.
func (msg *Message) Hash() []byte {
	h := hash.New(
		&hash.BytesWithDomain{TheDomain: "SSID", Bytes: msg.SSID},
		&hash.BytesWithDomain{TheDomain: "From", Bytes: msg.From.Bytes()},
		&hash.BytesWithDomain{TheDomain: "To", Bytes: msg.To.Bytes()},
		&hash.BytesWithDomain{TheDomain: "Protocol", Bytes: []byte(msg.Protocol)},
	)
	_ = h.WriteAny(uint64(msg.RoundNumber), msg.Data)
	return h.Sum()
}
