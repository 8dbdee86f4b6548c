// Package transactionsvc records payment attempts. Every transaction gets
// a generated internal key plus a random UUID reference for use in external
// payment links. Status moves from PENDING to exactly one final state and
// never changes again.
package transactionsvc
