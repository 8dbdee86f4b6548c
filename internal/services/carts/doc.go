// Package cartsvc manages per-account shopping carts. Cart items are keyed
// by account so a cart can be listed with a single prefix scan, and each
// item references a product variant validated against the catalog at add
// time.
package cartsvc
