// Package credential verifies and rotates the single admin credential pair.
// Plaintext passwords only ever exist inside a call; the document stores a
// bcrypt hash.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/yangpin97/cisco-client-portal/types"
)

// DefaultCost is the bcrypt work factor for new hashes.
const DefaultCost = 10

var (
	ErrMissingOldPassword = errors.New("old password is required to set a new password")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrEmptyUsername      = errors.New("username must not be empty")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

// Hash returns the bcrypt hash of password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether username and password match the stored pair.
func Verify(admin types.Admin, username, password string) bool {
	if admin.Username == "" || admin.PasswordHash == "" {
		return false
	}
	if username != admin.Username {
		return false
	}
	return matches(admin.PasswordHash, password)
}

// Rotate sets a new username and, when newPassword is not empty, a new
// password. Changing the password requires the current one. On any error the
// document is left untouched.
func Rotate(doc *types.Document, newUsername, oldPassword, newPassword string) error {
	if newPassword != "" {
		if oldPassword == "" {
			return ErrMissingOldPassword
		}
		if !matches(doc.Admin.PasswordHash, oldPassword) {
			return ErrWrongPassword
		}
	}
	if newUsername == "" {
		return ErrEmptyUsername
	}

	hash := doc.Admin.PasswordHash
	if newPassword != "" {
		var err error
		if hash, err = Hash(newPassword); err != nil {
			return err
		}
	}
	doc.Admin = types.Admin{Username: newUsername, PasswordHash: hash}
	return nil
}

// Reset overwrites the credential pair without checking the old password.
// Only reachable from the local command line.
func Reset(doc *types.Document, username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	hash, err := Hash(password)
	if err != nil {
		return err
	}
	doc.Admin = types.Admin{Username: username, PasswordHash: hash}
	return nil
}

func matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
