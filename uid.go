package klang

import "github.com/rs/xid"

// UID is an embeddable unique identity. It distinguishes blocks with equal
// names in logs and as map keys.
type UID struct {
	id string
}

// NewUID returns a new unique identity value.
func NewUID() UID {
	return UID{id: xid.New().String()}
}

// ID returns the unique identifier of this entity.
func (u UID) ID() string {
	return u.id
}
