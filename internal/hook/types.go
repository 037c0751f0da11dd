// Package hook runs user-supplied executables on interaction mode changes.
package hook

import "encoding/json"

// EventModeChange is fired when the sampled interaction mode changes.
const EventModeChange = "mode_change"

// Manifest describes a hook's metadata and the events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Event is the payload sent to a hook on its stdin.
type Event struct {
	Type      string          `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	State     json.RawMessage `json:"state,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Response is the acknowledgement a hook writes to stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the hook wants the given event type.
// A hook with no event list gets everything.
func (h *Hook) Subscribed(event string) bool {
	if len(h.Manifest.Events) == 0 {
		return true
	}
	for _, e := range h.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
