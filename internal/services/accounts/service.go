package accountsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

var (
	// ErrNotFound reports a missing account.
	ErrNotFound = errors.New("accounts: not found")
	// ErrEmailTaken reports an email uniqueness violation.
	ErrEmailTaken = errors.New("accounts: email already registered")
	// ErrInvalidInput reports a rejected request body.
	ErrInvalidInput = errors.New("accounts: invalid input")
)

// Service is the accounts facade.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger

	// mu serializes mutations so the email uniqueness check and the index
	// write commit as one step.
	mu sync.Mutex
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, logpkg.NewLogger().With(logpkg.Component("accounts")))
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("accounts"))
	}
	return &Service{rt: rt, logger: logger}
}

// CreateInput carries the registration fields.
type CreateInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Create registers a new account. The key is assigned by the generator
// immediately before the write; a generator failure aborts the insert.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.rt.DB().Get(emailKey(email)); err == nil {
		return nil, ErrEmailTaken
	}

	acc := &entity.Account{
		FullName:  in.FullName,
		Email:     email,
		Phone:     in.Phone,
		Password:  in.Password,
		Privilege: entity.PrivilegeUser,
	}
	acc.Touch(time.Now())
	if err := s.rt.Assigner().Assign(acc); err != nil {
		return nil, err
	}
	if err := s.put(ctx, acc, ""); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		logpkg.Str("account_id", acc.AccountID.String()),
		logpkg.Str("email", acc.Email),
	)
	return acc, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id entity.ID) (*entity.Account, error) {
	b, err := s.rt.DB().Get(accountKey(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var acc entity.Account
	if err := json.Unmarshal(b, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetByEmail resolves an account through the email index.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	b, err := s.rt.DB().Get(emailKey(normalizeEmail(email)))
	if err != nil {
		return nil, ErrNotFound
	}
	id, ok := idFromBytes(b)
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// UpdateInput carries full-update fields (put semantics).
type UpdateInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Update replaces the account's mutable profile fields. An email change
// re-points the uniqueness index in the same batch as the record write.
func (s *Service) Update(ctx context.Context, id entity.ID, in UpdateInput) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	newEmail := normalizeEmail(in.Email)
	oldEmail := acc.Email
	if newEmail != "" && newEmail != oldEmail {
		if _, err := s.rt.DB().Get(emailKey(newEmail)); err == nil {
			return nil, ErrEmailTaken
		}
		acc.Email = newEmail
	}
	if in.FullName != "" {
		acc.FullName = in.FullName
	}
	acc.Phone = in.Phone
	acc.Touch(time.Now())

	drop := ""
	if acc.Email != oldEmail {
		drop = oldEmail
	}
	if err := s.put(ctx, acc, drop); err != nil {
		return nil, err
	}
	return acc, nil
}

// UpdatePrivilege patches the privilege tier.
func (s *Service) UpdatePrivilege(ctx context.Context, id entity.ID, p entity.Privilege) (*entity.Account, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: unknown privilege %q", ErrInvalidInput, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	acc.Privilege = p
	acc.Touch(time.Now())
	if err := s.put(ctx, acc, ""); err != nil {
		return nil, err
	}
	return acc, nil
}

// UpdatePassword replaces the stored credential. Hashing policy lives with
// the caller; the service treats the value as opaque.
func (s *Service) UpdatePassword(ctx context.Context, id entity.ID, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	acc.Password = password
	acc.Touch(time.Now())
	return s.put(ctx, acc, "")
}

// Delete removes the account and its email index entry.
func (s *Service) Delete(ctx context.Context, id entity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b := s.rt.DB().NewBatch()
	defer b.Close()
	if err := b.Delete(accountKey(id), nil); err != nil {
		return err
	}
	if err := b.Delete(emailKey(acc.Email), nil); err != nil {
		return err
	}
	if err := s.rt.DB().CommitBatch(ctx, b); err != nil {
		return err
	}
	s.logger.Info("account deleted", logpkg.Str("account_id", id.String()))
	return nil
}

// List returns all accounts in id order.
func (s *Service) List(ctx context.Context) ([]entity.Account, error) {
	var out []entity.Account
	err := s.rt.DB().ScanPrefix(accountPrefix, func(_, v []byte) bool {
		var acc entity.Account
		if json.Unmarshal(v, &acc) == nil {
			out = append(out, acc)
		}
		return true
	})
	return out, err
}

// put writes the record and email index atomically, dropping the index
// entry for dropEmail when non-empty.
func (s *Service) put(ctx context.Context, acc *entity.Account, dropEmail string) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	b := s.rt.DB().NewBatch()
	defer b.Close()
	if err := b.Set(accountKey(acc.AccountID), raw, nil); err != nil {
		return err
	}
	if err := b.Set(emailKey(acc.Email), idBytes(acc.AccountID), nil); err != nil {
		return err
	}
	if dropEmail != "" {
		if err := b.Delete(emailKey(dropEmail), nil); err != nil {
			return err
		}
	}
	return s.rt.DB().CommitBatch(ctx, b)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
