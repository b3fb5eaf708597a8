package round

import "github.com/luxfi/gg18/pkg/party"

// Output is the terminal round of a successful execution.
type Output struct {
	*Helper
	Result interface{}
}

// Number implements Session. Terminal rounds number one past the final
// protocol round.
func (r *Output) Number() Number { return r.FinalRoundNumber() + 1 }

// MessageContent implements Session.
func (r *Output) MessageContent() Content { return nil }

// VerifyMessage implements Session.
func (r *Output) VerifyMessage(Message) error { return nil }

// StoreMessage implements Session.
func (r *Output) StoreMessage(Message) error { return nil }

// Finalize implements Session.
func (r *Output) Finalize(chan<- *Message) (Session, error) { return r, nil }

// Abort is the terminal round of a failed execution.
type Abort struct {
	*Helper
	Culprits []party.ID
	Err      error
}

// Number implements Session.
func (r *Abort) Number() Number { return r.FinalRoundNumber() + 1 }

// MessageContent implements Session.
func (r *Abort) MessageContent() Content { return nil }

// VerifyMessage implements Session.
func (r *Abort) VerifyMessage(Message) error { return nil }

// StoreMessage implements Session.
func (r *Abort) StoreMessage(Message) error { return nil }

// Finalize implements Session.
func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }
