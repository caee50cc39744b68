package models

// Status is the lifecycle state of an owner-scoped record.
//
// active ⇄ archived, and either may move to deleted. deleted is terminal:
// the record stays physically present but is invisible to listings.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether s is a known status value
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving to next
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == StatusDeleted {
		return false
	}
	return true
}
