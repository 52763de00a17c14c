package models

// Membership links a user to a group. At most one membership exists per
// (user, group) pair; the store enforces the unique constraint.
type Membership struct {
	// ID is the unique identifier for the membership (UUID format).
	ID string

	// UserID is the member's user ID.
	UserID string

	// GroupID is the group this membership belongs to.
	GroupID string

	// IsAdmin grants group management rights: editing or deleting the
	// group and deciding withdrawal requests.
	IsAdmin bool

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64
}
