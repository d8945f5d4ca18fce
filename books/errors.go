/*
errors.go - Centralized error types for the bookkeeping engine

PURPOSE:
  All sentinel errors in one place. Callers match with errors.Is().

ERROR POSTURE:
  Nothing in this system is fatal-to-process. Validation errors abort
  an operation before any state is written; lookup misses degrade to
  "nothing to act on"; unreadable documents decode to their empty
  default inside the repository; mirror failures are logged and
  swallowed. Local persistence is the durability source of truth.
*/
package books

import "errors"

var (
	// ErrMissingParty is returned when a purchase or sale names no
	// counterparty. Surfaced before any state mutation.
	ErrMissingParty = errors.New("party is required")

	// ErrNoLineItems is returned when a record carries no product line.
	ErrNoLineItems = errors.New("at least one product line is required")

	// ErrMissingProduct is returned when a line has a blank product name.
	ErrMissingProduct = errors.New("product name is required")

	// ErrNotFound is returned when a record id or ledger row has no
	// match in its collection. Treated as "nothing to act on".
	ErrNotFound = errors.New("record not found")

	// ErrUnknownParty is returned when a ledger operation names a party
	// with no account.
	ErrUnknownParty = errors.New("party not found in ledger")
)
