// Package domain contains entities without logic, just meta-data shared
// across the cluster: users, rooms, and the node identifiers that place them.
package domain

import "errors"

const (
	MaxUserNameLen    = 64
	MaxDescriptionLen = 512
)

var (
	ErrUserNumberEmpty = errors.New("user number empty")
	ErrUserNameEmpty   = errors.New("user name empty")
	ErrUserNameTooLong = errors.New("user name too long")
)

// UserNumber is the cluster-wide identity key for a logged-in user.
type UserNumber string

// UserName is the display name a user picked at login (mutable).
type UserName string

// NodeID identifies one cluster member; unique cluster-wide.
type NodeID string

// User is a snapshot of a logged-in user's profile. It is comparable
// (string fields only) so room membership checks can rely on plain
// equality against the whole record.
type User struct {
	UserNumber  UserNumber `json:"user_number"`
	UserName    UserName   `json:"user_name"`
	Node        NodeID     `json:"node"`
	Description string     `json:"description"`
}

// NewUser validates and builds the initial profile for a LOGIN.
func NewUser(number UserNumber, name UserName, node NodeID, description string) (User, error) {
	if number == "" {
		return User{}, ErrUserNumberEmpty
	}
	if name == "" {
		return User{}, ErrUserNameEmpty
	}
	if len(name) > MaxUserNameLen {
		return User{}, ErrUserNameTooLong
	}
	return User{UserNumber: number, UserName: name, Node: node, Description: description}, nil
}

// SetUserName validates and replaces the display name.
func (u *User) SetUserName(name UserName) error {
	if name == "" {
		return ErrUserNameEmpty
	}
	if len(name) > MaxUserNameLen {
		return ErrUserNameTooLong
	}
	u.UserName = name
	return nil
}

// SetDescription replaces the free-text profile description. Unlike the
// name it has no emptiness requirement.
func (u *User) SetDescription(description string) {
	u.Description = description
}
