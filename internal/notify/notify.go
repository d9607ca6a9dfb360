// Package notify sends one-shot desktop notifications. There is no daemon
// behind it; each command fires its notice and exits.
package notify

import "github.com/gen2brain/beeep"

// Notifier wraps desktop notifications behind the config switch.
type Notifier struct {
	Enabled bool
}

// Send shows a desktop notification. Failures are returned so the caller
// can log them; a missing notification daemon should never fail a command.
func (n *Notifier) Send(title, message string) error {
	if !n.Enabled {
		return nil
	}
	return beeep.Notify(title, message, "")
}
