package entity

import (
	"fmt"

	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

// Binding names the generator-assigned key attribute of an entity type. It
// is static metadata used for diagnostics and error context only; the
// generator itself never sees it.
type Binding struct {
	// Entity is the owning entity's logical (table) name.
	Entity string
	// Attribute is the key column's name.
	Attribute string
}

func (b Binding) String() string { return b.Entity + "." + b.Attribute }

// HasGeneratedIdentity is implemented by every entity whose primary key is
// assigned by the ID generator before the first write.
type HasGeneratedIdentity interface {
	// IdentityBinding returns the static key-attribute metadata.
	IdentityBinding() Binding
	// IdentityAssigned reports whether the key is already populated.
	IdentityAssigned() bool
	// AssignIdentity writes the generated value into the key attribute.
	AssignIdentity(id int64)
}

// Assigner is the persistence layer's pre-insert hook: it populates
// generator-assigned keys exactly once per entity instance.
type Assigner struct {
	gen *snowflake.Generator
}

// NewAssigner returns an Assigner backed by the given generator.
func NewAssigner(gen *snowflake.Generator) *Assigner {
	return &Assigner{gen: gen}
}

// Assign populates the key of every entity whose key is still unassigned.
// Already-populated keys are skipped. On generator failure the error is
// returned with the binding's diagnostic name attached and the caller must
// abort the insert; entities earlier in the list may already have keys,
// which is safe because nothing has been written yet.
func (a *Assigner) Assign(entities ...HasGeneratedIdentity) error {
	for _, e := range entities {
		if e.IdentityAssigned() {
			continue
		}
		id, err := a.gen.Next()
		if err != nil {
			return fmt.Errorf("assign %s: %w", e.IdentityBinding(), err)
		}
		e.AssignIdentity(id)
	}
	return nil
}
