package id

import "github.com/oklog/ulid/v2"

// New returns the id for a freshly verified user. ULIDs sort
// lexicographically by creation time, so a scan over the users table walks
// accounts in signup order.
func New() string {
	return ulid.Make().String()
}
