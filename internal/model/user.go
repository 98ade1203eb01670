package model

import (
	"time"
)

// User is the backend's account record. Clients only ever see the Identity.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email}
}
