package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/shopspring/decimal"
)

// AccountNumberLength is the number of digits in an account number
const AccountNumberLength = 16

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 6

// bcrypt ignores input beyond 72 bytes
const maxPasswordBytes = 72

// NUMERIC(18,2) leaves 16 integer digits
var maxAmount = decimal.New(1, 16)

// ValidateLuhn validates an account number using the Luhn algorithm
func ValidateLuhn(accountNumber string) error {
	if len(accountNumber) != AccountNumberLength {
		return fmt.Errorf("invalid account number length: must be %d digits", AccountNumberLength)
	}

	sum := 0
	isSecond := false

	for i := len(accountNumber) - 1; i >= 0; i-- {
		r := accountNumber[i]
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid account number: must contain only digits")
		}
		digit := int(r - '0')

		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isSecond = !isSecond
	}

	if sum%10 != 0 {
		return fmt.Errorf("invalid account number: failed Luhn check")
	}

	return nil
}

// luhnCheckDigit returns the digit that completes payload to a valid number
func luhnCheckDigit(payload string) byte {
	sum := 0
	isSecond := true

	for i := len(payload) - 1; i >= 0; i-- {
		digit := int(payload[i] - '0')
		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isSecond = !isSecond
	}

	return byte('0' + (10-sum%10)%10)
}

// GenerateAccountNumber returns a random account number with a Luhn check digit.
// The leading digit is never zero.
func GenerateAccountNumber() (string, error) {
	var b strings.Builder
	b.Grow(AccountNumberLength)

	for i := 0; i < AccountNumberLength-1; i++ {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", fmt.Errorf("failed to generate account number: %w", err)
		}
		b.WriteByte(byte('0' + lo + n.Int64()))
	}

	payload := b.String()
	return payload + string(luhnCheckDigit(payload)), nil
}

// ValidateAmount checks that amount is positive with at most two decimals
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("invalid amount: at most 2 decimal places allowed")
	}

	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("invalid amount: exceeds the maximum transferable amount")
	}

	return nil
}

// ValidateCurrency checks that currency is supported
func ValidateCurrency(currency models.Currency) error {
	if !currency.Valid() {
		return fmt.Errorf("invalid currency %q: must be PEN or USD", currency)
	}
	return nil
}

// NormalizeEmail trims and lower-cases email after checking it is a bare address
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("invalid email address")
	}

	return strings.ToLower(email), nil
}

// maskEmail keeps only the first character of the local part and the domain
func maskEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return strings.Repeat("*", len([]rune(email)))
	}

	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
}

// ValidatePassword checks the password length bounds
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}
