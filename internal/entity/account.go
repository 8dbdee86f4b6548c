package entity

import "time"

// Privilege is an account's authorization tier.
type Privilege string

const (
	PrivilegeUser  Privilege = "USER"
	PrivilegeAdmin Privilege = "ADMIN"
)

// Valid reports whether p is a known privilege.
func (p Privilege) Valid() bool {
	return p == PrivilegeUser || p == PrivilegeAdmin
}

// Auditables carries creation/update timestamps shared by all entities.
type Auditables struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch stamps the audit fields for a write at now.
func (a *Auditables) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}

// Account is a registered customer or administrator.
type Account struct {
	AccountID ID        `json:"accountId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"`
	Privilege Privilege `json:"privilege"`
	Auditables
}

func (a *Account) IdentityBinding() Binding {
	return Binding{Entity: "account", Attribute: "account_id"}
}

func (a *Account) IdentityAssigned() bool { return !a.AccountID.Zero() }

func (a *Account) AssignIdentity(id int64) { a.AccountID = ID(id) }
