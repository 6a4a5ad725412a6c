package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"user_name%x@example.io", true},
		{"", false},
		{"no-at-sign", false},
		{"@example.com", false},
		{"alice@", false},
		{"alice@example", false},
		{"alice@.com", false},
		{strings.Repeat("a", 250) + "@x.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidateEmail(tt.email), "email %q", tt.email)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"upper lower digit", "Password1", true},
		{"upper lower special", "Password!", true},
		{"lower digit special", "password1!", true},
		{"all four classes", "Sup3r$ecret!", true},
		{"too short", "Abc1!", false},
		{"only lowercase", "passwordpassword", false},
		{"only two classes", "password1", false},
		// 72 bytes is the bcrypt input cap: the boundary is accepted, one
		// byte past it is not.
		{"at bcrypt cap", strings.Repeat("Aa1!", 18), true},
		{"one past bcrypt cap", strings.Repeat("Aa1!", 18) + "a", false},
		{"too long", strings.Repeat("Aa1!", 19), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePassword(tt.password))
		})
	}
}
