// Package aggregates defines domain-facing aggregate contracts for the contact book.
//
// Address and phone writes are semantic write boundaries: ownership checks,
// the delete cascade and phone summary recomputation must commit atomically.
package aggregates
