// Package catalogsvc implements the product catalog: CRUD, CEL-filtered
// listing, and CSV bulk import. A product and each of its variants carry
// their own generator-assigned keys, all populated in a single pre-insert
// pass so a clock failure aborts the whole insert.
//
// List filters are CEL expressions over the product's fields:
//
//	category == "cake" && min_price < 50.0
package catalogsvc
