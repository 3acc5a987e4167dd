package serpwall

import "context"

// ToggleState is the user-controlled on/off switch.
type ToggleState int

// Toggle states. OFF is the default and the fail-open state.
const (
	Off ToggleState = iota
	On
)

// String returns "ON" or "OFF".
func (s ToggleState) String() string {
	if s == On {
		return "ON"
	}
	return "OFF"
}

// StoreValue returns the session-store encoding: "1" for ON, "0" for OFF.
func (s ToggleState) StoreValue() string {
	if s == On {
		return "1"
	}
	return "0"
}

// ParseToggleState decodes a session-store value. Anything other than "1"
// is OFF.
func ParseToggleState(v string) ToggleState {
	if v == "1" {
		return On
	}
	return Off
}

// SessionStore is a key-value store whose contents live only as long as the
// current session. Nothing written here outlives it.
type SessionStore interface {
	// Get returns the value for key.
	// Returns ENOTFOUND if the key has not been set in this session.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for the rest of the session.
	Set(ctx context.Context, key, value string) error
}
