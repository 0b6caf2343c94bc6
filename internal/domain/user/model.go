package user

import (
	"fmt"
	"strings"
)

// User is a member of the pick'em group. Users have no password.
type User struct {
	ID       int64
	Username string
	IsAdmin  bool
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
	Token    string
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user id must be > 0")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

func (u User) Principal(token string) Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		Token:    token,
	}
}

// NormalizeUsername is the lookup key used for case-insensitive logins.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
