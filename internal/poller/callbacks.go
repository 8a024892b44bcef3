package poller

import "github.com/didyoueat/didyoueat/internal/app"

// Callbacks provides hooks for poll events.
// All callbacks are optional - nil callbacks are simply not called.
type Callbacks struct {
	// OnTick is called after every evaluation, including the immediate one on Start
	OnTick func(snap app.Snapshot)

	// OnBreach is called when an evaluation newly surfaces the alert overlay
	OnBreach func(snap app.Snapshot)

	// OnRecover is called on the first normal evaluation after a breach
	OnRecover func(snap app.Snapshot)
}

func (c *Callbacks) callOnTick(snap app.Snapshot) {
	if c != nil && c.OnTick != nil {
		c.OnTick(snap)
	}
}

func (c *Callbacks) callOnBreach(snap app.Snapshot) {
	if c != nil && c.OnBreach != nil {
		c.OnBreach(snap)
	}
}

func (c *Callbacks) callOnRecover(snap app.Snapshot) {
	if c != nil && c.OnRecover != nil {
		c.OnRecover(snap)
	}
}

// ChainCallbacks combines multiple callback handlers
func ChainCallbacks(callbacks ...*Callbacks) *Callbacks {
	return &Callbacks{
		OnTick: func(snap app.Snapshot) {
			for _, c := range callbacks {
				c.callOnTick(snap)
			}
		},
		OnBreach: func(snap app.Snapshot) {
			for _, c := range callbacks {
				c.callOnBreach(snap)
			}
		},
		OnRecover: func(snap app.Snapshot) {
			for _, c := range callbacks {
				c.callOnRecover(snap)
			}
		},
	}
}
