package core

import "time"

// Session represents an authenticated wallet session
type Session struct {
	ID        string    // Unique session identifier
	Address   string    // Wallet address of the user, lowercased
	CreatedAt time.Time // When the session was created
}

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 24 * time.Hour
