package model

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input limits applied by callers before they reach the store.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	MaxUsernameLength = 64
	MaxNameLength     = 200
)

var noWhitespace = regexp.MustCompile(`^\S+$`)

// ValidateUsername checks a username chosen at registration.
func ValidateUsername(username string) error {
	return validation.Validate(username,
		validation.Required,
		validation.Length(1, MaxUsernameLength),
		validation.Match(noWhitespace).Error("must not contain whitespace"),
	)
}

// ValidatePassword checks that a password is long enough and fits bcrypt.
func ValidatePassword(password string) error {
	return validation.Validate(password,
		validation.Required,
		validation.Length(MinPasswordLength, 0),
		validation.By(func(any) error {
			if len(password) > MaxPasswordLength {
				return fmt.Errorf("must be at most %d bytes", MaxPasswordLength)
			}
			return nil
		}),
	)
}

// ValidateFolderName checks a folder name.
func ValidateFolderName(name string) error {
	return validation.Validate(name, validation.Required, validation.Length(1, MaxNameLength))
}

// ValidateItemName checks an item name. Quantities have no range check.
func ValidateItemName(name string) error {
	return validation.Validate(name, validation.Required, validation.Length(1, MaxNameLength))
}
