package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender values stored in the users table.
const (
	GenderWoman   = 0
	GenderMan     = 1
	GenderUnknown = 2
)

// FarFuture is the sentinel stored in date fields that have not happened
// yet: a missing birthday, modified_on before the first modification and
// revoked_on while the user is active.
var FarFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// User represents a record of the users table
// @Description Full user record
type User struct {
	ID        uuid.UUID `json:"id" example:"4b2cbed1-7ba8-45ee-b16c-0c6d2b2e3c5a"`
	Login     string    `json:"login" example:"johndoe"`
	Password  string    `json:"password" example:"qwerty123"`
	Name      string    `json:"name" example:"John"`
	Gender    int       `json:"gender" example:"1" enums:"0,1,2"`
	Birthday  time.Time `json:"birthday" example:"1990-06-15T00:00:00Z"`
	IsAdmin   bool      `json:"is_admin" example:"false"`
	CreatedOn time.Time `json:"created_on" example:"2024-03-15T14:30:00Z"`
	CreatedBy string    `json:"created_by" example:"admin"`
	ModifiedOn time.Time `json:"modified_on"`
	ModifiedBy string    `json:"modified_by"`
	RevokedOn  time.Time `json:"revoked_on"`
	RevokedBy  string    `json:"revoked_by"`
}

// IsRevoked reports whether the user is soft-deleted. Revocation is derived
// from revoked_by emptiness, not a separate state column.
func (u *User) IsRevoked() bool {
	return u.RevokedBy != ""
}

// HasBirthday reports whether a birthday was ever supplied.
func (u *User) HasBirthday() bool {
	return !u.Birthday.Equal(FarFuture)
}

// ActiveStatus returns the display status derived from revocation.
func (u *User) ActiveStatus() string {
	if u.IsRevoked() {
		return "Revoked"
	}
	return "Active"
}

// UserResponse is the full user payload returned to an authenticated caller
// @Description Full user payload
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Login     string     `json:"login"`
	Password  string     `json:"password"`
	Name      string     `json:"name"`
	Gender    int        `json:"gender" enums:"0,1,2"`
	Birthday  *time.Time `json:"birthday"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedOn time.Time  `json:"created_on"`
	CreatedBy string     `json:"created_by"`
	ModifiedOn *time.Time `json:"modified_on"`
	ModifiedBy string     `json:"modified_by"`
	RevokedOn  *time.Time `json:"revoked_on"`
	RevokedBy  string     `json:"revoked_by"`
}

// UserInfoResponse is the reduced projection returned by the admin lookup
// @Description Name, gender, birthday and active status of a user
type UserInfoResponse struct {
	Name         string     `json:"name"`
	Gender       int        `json:"gender" enums:"0,1,2"`
	Birthday     *time.Time `json:"birthday"`
	ActiveStatus string     `json:"active_status" example:"Active" enums:"Active,Revoked"`
}

// MessageResponse is a short confirmation string
// @Description Operation confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Name has been successfully changed."`
}

// ErrorResponse carries a short failure description
// @Description Operation failure
type ErrorResponse struct {
	Error string `json:"error" example:"Incorrect login or password."`
}
