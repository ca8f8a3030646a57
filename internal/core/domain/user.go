package domain

import (
	"fmt"
	"strings"
)

// User is the signed-in identity of a session. It only gates navigation in
// the client and has no bearing on cart state.
type User struct {
	Email string
	Name  string
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: email and name are required", ErrInvalidInput)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: malformed email %q", ErrInvalidInput, u.Email)
	}
	return nil
}
