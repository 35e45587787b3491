package shsession

import (
	"fmt"
	"time"

	"github.com/monopole/shsession/channeler"
)

// Parameters is a bag of parameters for a Session instance.
// See individual fields for their explanation.
type Parameters struct {
	channeler.Params

	// Timeout bounds every blocking stream read performed during a
	// Send.  Zero means use the default; it's mutable afterwards via
	// Session.SetTimeout.
	Timeout time.Duration

	// OnFatal is the session's error policy, consulted on every
	// fatal condition: spawn failure, read timeout, broken stream.
	// Nil means propagate the error to the caller unchanged.
	OnFatal ErrorPolicy
}

const defaultTimeout = 10 * time.Second

// Validate returns an error if there's a problem in the Parameters.
func (p *Parameters) Validate() error {
	p.setDefaults()
	if p.Timeout < 0 {
		return fmt.Errorf("timeout must be positive; got %s", p.Timeout)
	}
	return p.Params.Validate()
}

func (p *Parameters) setDefaults() {
	if p.Timeout == 0 {
		p.Timeout = defaultTimeout
	}
}
