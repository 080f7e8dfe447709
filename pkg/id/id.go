// Package id mints identifiers for trade records.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. ULIDs are time-ordered, so sorting
// ledger rows by ID sorts them by execution time; ulid.Make draws from
// the package's locked monotonic entropy source, which keeps IDs minted
// within the same millisecond strictly increasing.
func New() string {
	return ulid.Make().String()
}
