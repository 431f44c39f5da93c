package validation

import "regexp"

const (
	// Maximum lengths mirror the varchar caps of the users table.
	MaxLoginLength    = 20
	MaxPasswordLength = 30
	MaxNameLength     = 20
)

// Login, password and name accept only Latin letters and digits.
var latinLettersAndDigits = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// IsValidToken reports whether s is non-empty and contains only ASCII
// letters and digits.
func IsValidToken(s string) bool {
	return latinLettersAndDigits.MatchString(s)
}

// IsValidLogin checks the token rule and the login length cap.
func IsValidLogin(login string) bool {
	return len(login) <= MaxLoginLength && IsValidToken(login)
}

// IsValidPassword checks the token rule and the password length cap.
func IsValidPassword(password string) bool {
	return len(password) <= MaxPasswordLength && IsValidToken(password)
}

// IsValidName checks the token rule and the name length cap.
func IsValidName(name string) bool {
	return len(name) <= MaxNameLength && IsValidToken(name)
}
