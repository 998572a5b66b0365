package service

import (
	"testing"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLuhn(t *testing.T) {
	tests := []struct {
		name          string
		accountNumber string
		wantErr       bool
	}{
		{name: "valid account number", accountNumber: "4532015112830366"},
		{name: "another valid number", accountNumber: "4556737586899855"},
		{name: "failed check digit", accountNumber: "1234567890123456", wantErr: true},
		{name: "empty", accountNumber: "", wantErr: true},
		{name: "too short", accountNumber: "79927398713", wantErr: true},
		{name: "non-numeric", accountNumber: "abcd1234efgh5678", wantErr: true},
		{name: "spaces are not stripped", accountNumber: "4532 0151 1283 0366", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLuhn(tt.accountNumber)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ana@bank.test", want: "a**@bank.test"},
		{in: " Luis.Perez@Bank.test ", want: "l*********@bank.test"},
		{in: "x@bank.test", want: "x@bank.test"},
		{in: "not-an-email", want: "************"},
		{in: "@bank.test", want: "**********"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, maskEmail(tt.in))
		})
	}
}

func TestGenerateAccountNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		n, err := GenerateAccountNumber()
		require.NoError(t, err)
		assert.Len(t, n, AccountNumberLength)
		assert.NotEqual(t, byte('0'), n[0])
		assert.NoError(t, ValidateLuhn(n), n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 190, "numbers should be random")
}

func TestLuhnCheckDigit(t *testing.T) {
	assert.Equal(t, byte('6'), luhnCheckDigit("453201511283036"))
	assert.Equal(t, byte('5'), luhnCheckDigit("455673758689985"))
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "positive amount", amount: "100.00"},
		{name: "one cent", amount: "0.01"},
		{name: "whole number", amount: "7"},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-10", wantErr: true},
		{name: "three decimals", amount: "1.005", wantErr: true},
		{name: "too large", amount: "10000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency(models.CurrencyPEN))
	assert.NoError(t, ValidateCurrency(models.CurrencyUSD))
	assert.Error(t, ValidateCurrency("EUR"))
	assert.Error(t, ValidateCurrency(""))
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Ana@Bank.test", want: "ana@bank.test"},
		{in: "  luis@bank.test ", want: "luis@bank.test"},
		{in: "Ana <ana@bank.test>", wantErr: true},
		{in: "ana@localhost", wantErr: true},
		{in: "not-an-email", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(string(make([]byte, 73))))
}
