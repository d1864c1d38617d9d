// Package contacts holds table-level repos for the address and phone tables.
//
// Repos apply no ownership rules; those live in internal/data/aggregates.
package contacts
