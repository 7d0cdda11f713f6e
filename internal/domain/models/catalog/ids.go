package catalog

import "github.com/google/uuid"

// ID prefixes by entity kind.
const (
	PrefixEvent    = "evt"
	PrefixTag      = "tag"
	PrefixVersion  = "ver"
	PrefixApproval = "approval"
	PrefixUser     = "user"
)

// NewID returns a fresh identifier such as "evt_6f1c...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
