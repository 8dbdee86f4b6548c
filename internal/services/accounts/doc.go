// Package accountsvc implements account management on top of the entity
// store. Every insert funnels through the identity assigner so the account
// key is generator-assigned before the first durable write; email uniqueness
// is enforced with a secondary index maintained in the same batch as the
// record.
package accountsvc
