package ids

import "github.com/segmentio/ksuid"

// New returns a time-ordered, collision-resistant identifier.
func New() string {
	return ksuid.New().String()
}
