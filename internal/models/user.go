package models

// Amount is a monetary quantity. There is no currency: every amount in a
// ledger is expressed in the same implicit unit.
type Amount = float64

// User represents a participant of a ledger.
//
// A user is identified by its name only; two users with the same name are the
// same user.
type User struct {
	// Name is the display name and the identity of the user.
	Name string `json:"name"`
}

// NewUser creates a User with the given name.
func NewUser(name string) User {
	return User{Name: name}
}

func (u User) String() string {
	return u.Name
}
