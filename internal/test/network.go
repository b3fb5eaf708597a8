// Package test provides the in-process network fabric and party
// helpers used by protocol tests and the CLI simulations.
package test

import (
	"fmt"
	"sync"

	"github.com/luxfi/gg18/pkg/party"
	"github.com/luxfi/gg18/pkg/protocol"
)

// PartyIDs returns n distinct deterministic party IDs.
func PartyIDs(n int) party.IDSlice {
	ids := make([]party.ID, n)
	for i := range ids {
		if i < 26 {
			ids[i] = party.ID(rune('a' + i))
		} else {
			ids[i] = party.ID(fmt.Sprintf("%c%d", 'a'+i%26, i/26))
		}
	}
	return party.NewIDSlice(ids)
}

// Network simulates a reliable broadcast + point-to-point message bus
// between parties running in the same process. Messages are deposited
// into per-party queues under a mutex; receivers block on their
// channel until a message arrives. The whole session shares the one
// bus, and closing it tears every party down together.
type Network struct {
	parties          party.IDSlice
	listenChannels   map[party.ID]chan *protocol.Message
	done             chan struct{}
	closedListenChan chan *protocol.Message
	mtx              sync.Mutex
}

// NewNetwork creates a bus for the given parties.
func NewNetwork(parties party.IDSlice) *Network {
	closed := make(chan *protocol.Message)
	close(closed)
	c := &Network{
		parties:          parties,
		listenChannels:   make(map[party.ID]chan *protocol.Message, 2*len(parties)),
		closedListenChan: closed,
	}
	return c
}

func (n *Network) init() {
	N := len(n.parties)
	for _, id := range n.parties {
		n.listenChannels[id] = make(chan *protocol.Message, 8*N*N)
	}
	n.done = make(chan struct{})
}

// Next returns the receive channel for the given party.
func (n *Network) Next(id party.ID) <-chan *protocol.Message {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if len(n.listenChannels) == 0 {
		n.init()
	}
	c, ok := n.listenChannels[id]
	if !ok {
		return n.closedListenChan
	}
	return c
}

// Send delivers the message to every party it is addressed to. A
// second deposit for the same logical slot is rejected downstream by
// the handler, not the bus.
func (n *Network) Send(msg *protocol.Message) {
	if msg == nil {
		return
	}
	n.mtx.Lock()
	defer n.mtx.Unlock()
	for id, c := range n.listenChannels {
		if msg.IsFor(id) && c != nil {
			c <- msg
		}
	}
}

// Done returns a channel closed once every party has quit.
func (n *Network) Done(id party.ID) chan struct{} {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	if _, ok := n.listenChannels[id]; ok {
		delete(n.listenChannels, id)
	}
	if len(n.listenChannels) == 0 && n.done != nil {
		close(n.done)
	}
	return n.done
}

// Quit removes the party from the bus without waiting for the rest.
func (n *Network) Quit(id party.ID) {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	delete(n.listenChannels, id)
}

// HandlerLoop blocks until the handler has finished. The result of the
// execution is retrieved from the handler.
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) {
	for {
		select {
		// outgoing messages
		case msg, ok := <-h.Listen():
			if !ok {
				<-network.Done(id)
				// the channel was closed, indicating that the protocol is done.
				return
			}
			go network.Send(msg)

		// incoming messages
		case msg := <-network.Next(id):
			h.Accept(msg)
		}
	}
}
