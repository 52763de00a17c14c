package models

// TransactionType distinguishes money flowing into a group from money
// flowing out.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// TransactionStatus is the lifecycle state of a transaction.
//
// Deposits are born Approved. Withdrawals are born Pending and transition
// exactly once to Approved or Rejected; both are terminal.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusApproved TransactionStatus = "approved"
	StatusRejected TransactionStatus = "rejected"
)

// IsDecision reports whether s is a status an admin may assign to a
// pending withdrawal.
func (s TransactionStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Transaction records a single deposit or withdrawal against a group.
// Rows are append-only: after creation only Status may change, and only
// for a pending withdrawal.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the member who made the deposit or requested the withdrawal.
	UserID string

	// GroupID is the group the transaction belongs to.
	GroupID string

	// Amount is the transaction amount. Always > 0; the type determines
	// the direction.
	Amount float64

	// Type is deposit or withdrawal.
	Type TransactionType

	// Status is the lifecycle state; see TransactionStatus.
	Status TransactionStatus

	// Description is an optional note from the member.
	Description string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}
