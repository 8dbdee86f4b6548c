package entity

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the payment workflow state.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionSuccess   TransactionStatus = "SUCCESS"
	TransactionCancelled TransactionStatus = "CANCELLED"
	TransactionExpired   TransactionStatus = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionSuccess, TransactionCancelled, TransactionExpired:
		return true
	}
	return false
}

// Final reports whether the status terminates the workflow.
func (s TransactionStatus) Final() bool {
	return s.Valid() && s != TransactionPending
}

// Transaction records one payment attempt for an account. The snowflake key
// identifies it internally; ReferenceID is the externally shared handle.
type Transaction struct {
	TransactionID ID                `json:"transactionId"`
	ReferenceID   uuid.UUID         `json:"referenceId"`
	AccountID     ID                `json:"accountId"`
	Amount        float64           `json:"amount"`
	InvoiceLink   string            `json:"invoiceLink,omitempty"`
	Status        TransactionStatus `json:"status"`
	FinalizedAt   *time.Time        `json:"finalizedAt,omitempty"`
	Auditables
}

func (t *Transaction) IdentityBinding() Binding {
	return Binding{Entity: "transaction", Attribute: "transaction_id"}
}

func (t *Transaction) IdentityAssigned() bool { return !t.TransactionID.Zero() }

func (t *Transaction) AssignIdentity(id int64) { t.TransactionID = ID(id) }
