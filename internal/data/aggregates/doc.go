// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose the table repos from internal/data/repos
// and own the transaction boundaries for the address/phone write paths: ownership
// checks, the address delete cascade and phone summary recomputation.
package aggregates
