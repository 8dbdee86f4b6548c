package transactionsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

var (
	// ErrNotFound reports a missing transaction.
	ErrNotFound = errors.New("transactions: not found")
	// ErrInvalidInput reports a rejected request.
	ErrInvalidInput = errors.New("transactions: invalid input")
	// ErrFinalized reports a status change attempted on a finished
	// transaction.
	ErrFinalized = errors.New("transactions: already finalized")
)

// Service records and finalizes payment attempts.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	now    func() time.Time
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, logpkg.NewLogger().With(logpkg.Component("transactions")))
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("transactions"))
	}
	return &Service{rt: rt, logger: logger, now: time.Now}
}

// CreateInput opens a payment attempt for an account.
type CreateInput struct {
	AccountID   entity.ID `json:"accountId"`
	Amount      float64   `json:"amount"`
	InvoiceLink string    `json:"invoiceLink,omitempty"`
}

// Create opens a PENDING transaction. The internal key comes from the
// generator; the reference handed to the payment provider is a fresh UUID.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Transaction, error) {
	if in.AccountID.Zero() {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	tx := &entity.Transaction{
		ReferenceID: uuid.New(),
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		InvoiceLink: in.InvoiceLink,
		Status:      entity.TransactionPending,
	}
	tx.Touch(s.now())
	if err := s.rt.Assigner().Assign(tx); err != nil {
		return nil, err
	}
	if err := s.put(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("transaction opened",
		logpkg.Str("transaction_id", tx.TransactionID.String()),
		logpkg.Str("reference_id", tx.ReferenceID.String()),
		logpkg.Str("account_id", tx.AccountID.String()),
	)
	return tx, nil
}

// Get returns the transaction with the given internal key.
func (s *Service) Get(ctx context.Context, id entity.ID) (*entity.Transaction, error) {
	b, err := s.rt.DB().Get(txKey(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var tx entity.Transaction
	if err := json.Unmarshal(b, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetByReference resolves the external UUID back to the transaction.
func (s *Service) GetByReference(ctx context.Context, ref uuid.UUID) (*entity.Transaction, error) {
	b, err := s.rt.DB().Get(refKey(ref))
	if err != nil {
		return nil, ErrNotFound
	}
	return s.Get(ctx, idFromBytes(b))
}

// ListByAccount returns the account's transactions in creation order.
func (s *Service) ListByAccount(ctx context.Context, accountID entity.ID) ([]entity.Transaction, error) {
	var out []entity.Transaction
	err := s.rt.DB().ScanPrefix(accountTxPrefix(accountID), func(_, v []byte) bool {
		var tx entity.Transaction
		if json.Unmarshal(v, &tx) == nil {
			out = append(out, tx)
		}
		return true
	})
	return out, err
}

// Finalize moves a PENDING transaction to one final status. Finished
// transactions are immutable.
func (s *Service) Finalize(ctx context.Context, id entity.ID, status entity.TransactionStatus) (*entity.Transaction, error) {
	if !status.Final() {
		return nil, fmt.Errorf("%w: %q is not a final status", ErrInvalidInput, status)
	}
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.Status.Final() {
		return nil, fmt.Errorf("%w: %s is %s", ErrFinalized, tx.TransactionID, tx.Status)
	}
	tx.Status = status
	finalizedAt := s.now()
	tx.FinalizedAt = &finalizedAt
	tx.Touch(finalizedAt)
	if err := s.put(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.Info("transaction finalized",
		logpkg.Str("transaction_id", tx.TransactionID.String()),
		logpkg.Str("status", string(status)),
	)
	return tx, nil
}

// put writes the record plus both lookup indexes in one batch.
func (s *Service) put(ctx context.Context, tx *entity.Transaction) error {
	raw, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	batch := s.rt.DB().NewBatch()
	if err := batch.Set(txKey(tx.TransactionID), raw, nil); err != nil {
		batch.Close()
		return err
	}
	if err := batch.Set(refKey(tx.ReferenceID), idBytes(tx.TransactionID), nil); err != nil {
		batch.Close()
		return err
	}
	if err := batch.Set(accountTxKey(tx.AccountID, tx.TransactionID), raw, nil); err != nil {
		batch.Close()
		return err
	}
	return s.rt.DB().CommitBatch(ctx, batch)
}
