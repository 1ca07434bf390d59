package models

import "time"

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusDisabled AccountStatus = "DISABLED"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string        `db:"id" json:"id"`
	Account      string        `db:"account" json:"account"`
	NickName     string        `db:"nick_name" json:"nick_name"`
	Email        string        `db:"email" json:"email"`
	Mobile       string        `db:"mobile" json:"mobile"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Status       AccountStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the account may sign in and hold sessions.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

// Identity is the user snapshot written to the access and refresh cache
// entries at sign-in and published into the request context by the
// authentication gate. It intentionally excludes credentials.
type Identity struct {
	ID       string `json:"id"`
	Account  string `json:"account"`
	NickName string `json:"nick_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Client   string `json:"client"`
}

// IdentityOf derives the cached snapshot for a user signed in on a client
// brand.
func IdentityOf(u *User, client string) Identity {
	return Identity{
		ID:       u.ID,
		Account:  u.Account,
		NickName: u.NickName,
		Email:    u.Email,
		Mobile:   u.Mobile,
		Client:   client,
	}
}
