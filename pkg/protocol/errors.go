package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/gg18/pkg/party"
)

// Error is the failure result of a protocol execution. When the fault
// is attributable, Culprits names the misbehaving parties.
type Error struct {
	Culprits []party.ID
	Err      error
}

// Error implements error.
func (e Error) Error() string {
	if len(e.Culprits) == 0 {
		return fmt.Sprintf("protocol: %s", e.Err)
	}
	ids := make([]string, len(e.Culprits))
	for i, id := range e.Culprits {
		ids[i] = string(id)
	}
	return fmt.Sprintf("protocol: party [%s]: %s", strings.Join(ids, ", "), e.Err)
}

// Unwrap implements errors.Unwrap.
func (e Error) Unwrap() error { return e.Err }

// Is lets errors.Is reach the underlying cause.
func (e Error) Is(target error) bool { return errors.Is(e.Err, target) }
