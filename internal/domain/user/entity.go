package user

import "time"

// User is an employee account. JoinDate bounds the reconciler: days
// before it are outside employment and never counted absent.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	IsAdmin      bool
	JoinDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
