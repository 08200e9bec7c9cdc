package domain

// TokenAction is the single declared purpose a token is valid for. A token
// presented for any other action is rejected regardless of its signature.
type TokenAction string

const (
	// ActionLogin authenticates ordinary API requests. Login tokens are
	// reusable until they expire or the bearer logs out.
	ActionLogin TokenAction = "login"

	// ActionActivate activates a freshly registered account. Single use.
	ActionActivate TokenAction = "activate"

	// ActionPassword authorizes setting a password, covering both the reset
	// flow and first-time setup of admin-created accounts. Single use.
	ActionPassword TokenAction = "password"
)

// Actions returns every action the service issues tokens for. Each one must
// have an expiry configured; a missing entry is a configuration error caught
// at startup.
func Actions() []TokenAction {
	return []TokenAction{ActionLogin, ActionActivate, ActionPassword}
}
