package security

import (
	"strings"
	"unicode"
)

// PasswordPolicy decides whether a candidate password is acceptable and, if
// not, reports every reason. The registration path receives a policy
// explicitly instead of reading global state.
type PasswordPolicy interface {
	Validate(password string) []string
}

// DefaultPasswordPolicy rejects short, non-mixed or trivially guessable
// passwords.
type DefaultPasswordPolicy struct {
	MinLength int
}

func (p DefaultPasswordPolicy) Validate(password string) []string {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = 8
	}

	var reasons []string
	if len(password) < minLen {
		reasons = append(reasons, "password is too short")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		reasons = append(reasons, "password must contain a letter")
	}
	if !hasDigit {
		reasons = append(reasons, "password must contain a digit")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		reasons = append(reasons, "password is too common")
	}

	return reasons
}

var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"iloveyou1":  {},
	"letmein123": {},
}
