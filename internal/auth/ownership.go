package auth

// Owned is anything with a single owning user.
type Owned interface {
	OwnerID() string
}

// IsOwner is the one ownership predicate every mutating handler goes
// through, so wrong-owner requests get the same 403 everywhere.
func IsOwner(entity Owned, requesterID string) bool {
	return requesterID != "" && entity.OwnerID() == requesterID
}
