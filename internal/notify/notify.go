package notify

import "context"

// SendOptions carries the values substituted into the alert template.
type SendOptions struct {
	DeviceName   string
	PropertyName string
	Value        any
}

// Result is how every notification attempt reports back. A missing or
// incomplete configuration and a transport failure both surface here;
// nothing in this package panics or propagates collaborator errors.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Recipients is how many gateway addresses the attempt targeted.
	Recipients int `json:"recipients,omitempty"`
}

type Notifier interface {
	// SendAlert makes exactly one delivery attempt. messageOverride, when
	// non-empty, replaces the configured template entirely.
	SendAlert(ctx context.Context, messageOverride string, opts SendOptions) Result
}

// Multi fans an alert out to several channels. It attempts every channel and
// reports failure if any of them failed.
type Multi []Notifier

func (m Multi) SendAlert(ctx context.Context, messageOverride string, opts SendOptions) Result {
	out := Result{Success: true}
	for _, n := range m {
		if n == nil {
			continue
		}
		if r := n.SendAlert(ctx, messageOverride, opts); !r.Success && out.Success {
			out = r
		}
	}
	return out
}
