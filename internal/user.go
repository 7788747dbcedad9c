package internal

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidUsername is returned for usernames outside the allowed shape
var ErrInvalidUsername = errors.New("username must be 3-32 characters of letters, digits, '.', '-' or '_'")

const (
	minUsernameLen = 3
	maxUsernameLen = 32
)

// NormalizeUsername trims and validates a LOCKDIN username
func NormalizeUsername(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < minUsernameLen || len(s) > maxUsernameLen {
		return "", ErrInvalidUsername
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return "", ErrInvalidUsername
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			continue
		}
		return "", ErrInvalidUsername
	}
	return s, nil
}
