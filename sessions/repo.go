package sessions

// Store owns the login sessions. Every read-modify-write is atomic per call.
type Store interface {
	// Create allocates a fresh pending session with random id and state
	Create() (Session, error)

	// Get returns the session, or ErrSessionNotFound / ErrSessionExpired. Expired
	// entries are evicted on access.
	Get(sessionID string) (Session, error)

	// Update applies a terminal transition to a pending, unexpired session
	Update(sessionID string, transition Transition) error

	// Consume returns the session and removes it when it has succeeded
	Consume(sessionID string) (Session, error)

	// Delete removes a session; deleting a missing session is not an error
	Delete(sessionID string) error

	// Sweep removes every expired session and returns how many were removed
	Sweep() int
}
