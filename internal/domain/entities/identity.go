package entities

import "github.com/google/uuid"

// Identity is the learner profile a session works for.
// Named identities are persisted under Name; anonymous ones live only in memory.
type Identity struct {
	Name        string
	DisplayName string
	Anonymous   bool
}

// NewNamedIdentity creates a durable profile.
func NewNamedIdentity(name, displayName string) Identity {
	if displayName == "" {
		displayName = name
	}
	return Identity{Name: name, DisplayName: displayName}
}

// NewAnonymousIdentity creates a transient guest profile with a random name.
func NewAnonymousIdentity() Identity {
	return Identity{
		Name:        "guest-" + uuid.NewString(),
		DisplayName: "Guest",
		Anonymous:   true,
	}
}
