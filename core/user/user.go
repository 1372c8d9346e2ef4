package user

import "time"

type User struct {
	ID           string    `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Info is the shape returned to the browser after login.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
