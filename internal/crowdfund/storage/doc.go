// Package storage defines the persistence contract for the crowdfund
// aggregate. Every mutating entry point produces a Changeset that the store
// applies in a single transaction, so the campaign row, the contribution
// ledger, and the journal never drift apart.
package storage
