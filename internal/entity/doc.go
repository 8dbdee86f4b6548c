// Package entity defines the persisted domain model and the identity-binding
// contract through which every entity receives its snowflake primary key.
//
// # Identity binding
//
// Each entity type declares, once, which attribute is generator-assigned by
// implementing HasGeneratedIdentity. The persistence layer calls
// Assigner.Assign on new instances before their first durable write; the
// assigner populates only unassigned keys and never through any other
// mechanism. There is no reflection or tag scanning involved, the contract
// is plain interface dispatch.
//
//	acc := &entity.Account{Email: "a@b.c"}
//	if err := assigner.Assign(acc); err != nil {
//	    return err // insert must not proceed
//	}
package entity
