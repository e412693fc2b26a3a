package user

// User represents a user entity in the system.
type User struct {
	ID    int64  // ID is assigned by the store and never changes
	Name  string // Name is the full name of the user
	Email string // Email is the unique email address of the user
}

// Input carries the writable fields of a user. It is used for both create and
// full-replace update; the id of an update travels separately.
type Input struct {
	Name  string
	Email string
}
