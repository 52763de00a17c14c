package models

// Group represents a shared savings pool.
//
// CurrentAmount is owned by the transaction ledger: it is incremented when a
// deposit is recorded and decremented when a withdrawal is approved, always
// inside the same storage transaction as the ledger row itself. Nothing else
// may write it.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Trip to Diani").
	Name string

	// Description is an optional free-text description of the goal.
	Description string

	// TargetAmount is the savings goal. Always >= 0.
	TargetAmount float64

	// CurrentAmount is the pooled balance. Always >= 0; equals the sum of
	// approved deposits minus the sum of approved withdrawals.
	CurrentAmount float64

	// CreatedBy is the ID of the user who created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupPatch carries the updatable group fields. A nil field means
// "leave unchanged"; only non-nil fields are applied.
type GroupPatch struct {
	Name         *string
	Description  *string
	TargetAmount *float64
}
