package ports

import "github.com/pathmint/waypoint/core"

// Tokenizer converts between sessions and bearer tokens
type Tokenizer interface {
	// SessionToToken mints a signed bearer token for the session
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession parses and validates a bearer token. The returned
	// session is reconstructed from claims; liveness must still be
	// cross-checked against the SessionStore.
	TokenToSession(token string) (*core.Session, error)
}
