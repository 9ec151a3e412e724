package auth

import (
	"regexp"
	"unicode/utf16"
)

// MinPasswordLength is the shortest password accepted by the login form.
const MinPasswordLength = 6

var dniRE = regexp.MustCompile(`^[0-9]{7,9}$`)

// A ValidationError is an input problem detected before any request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateDNI checks that dni is 7 to 9 digits.
func ValidateDNI(dni string) error {
	if !dniRE.MatchString(dni) {
		return &ValidationError{Field: "dni", Message: "⚠️ El DNI debe contener entre 7 y 9 dígitos."}
	}
	return nil
}

// ValidatePassword checks that password has at least MinPasswordLength
// characters, counted in UTF-16 code units as the web form does.
func ValidatePassword(password string) error {
	if utf16Len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "⚠️ La contraseña debe tener al menos 6 caracteres."}
	}
	return nil
}

// ValidateCredentials validates dni first, then password.
func ValidateCredentials(dni, password string) error {
	if err := ValidateDNI(dni); err != nil {
		return err
	}
	return ValidatePassword(password)
}

func utf16Len(s string) int {
	var n int
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}
