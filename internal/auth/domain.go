package auth

import "time"

// User represents a registered account. PasswordHash is excluded from JSON
// marshalling so no response path can ever serialize it.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	BirthDate    string    `json:"birthDate"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
