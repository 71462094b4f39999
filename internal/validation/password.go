package validation

import "unicode"

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 12

// StrongPassword reports whether password has at least MinPasswordLength
// characters, an upper and a lower case letter, a digit and a symbol, and no
// whitespace.
func StrongPassword(password string) bool {
	var length int
	var upper, lower, digit, symbol bool
	for _, r := range password {
		length++
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return length >= MinPasswordLength && upper && lower && digit && symbol
}
