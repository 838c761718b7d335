package ids

import "github.com/segmentio/ksuid"

// New returns a k-sortable unique id. Ids generated later sort
// lexicographically after earlier ones, which also makes the canonical
// ordering of a user pair a plain string comparison.
func New() string {
	return ksuid.New().String()
}
