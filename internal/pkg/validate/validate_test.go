package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid", "admin@example.com", true},
		{"valid with subdomain", "a@mail.example.co", true},
		{"empty", "", false},
		{"no at sign", "adminexample.com", false},
		{"no tld", "admin@example", false},
		{"spaces", "ad min@example.com", false},
		{"too long", strings.Repeat("a", 250) + "@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Email(tt.email))
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		wantErr string // empty means valid
	}{
		{"too short", "short1!", "at least 8"},
		{"too long", strings.Repeat("Aa1", 17), "at most 50"},
		{"lower and digit", "alllowercase1", ""},
		{"single class", "alllowercase", "at least two"},
		{"digits only", "12345678", "at least two"},
		{"upper lower digit", "Valid123", ""},
		{"upper and lower", "UPPERlower", ""},
		{"lower and special", "password!", ""},
		{"exactly min length", "Aa345678", ""},
		{"exactly max length", strings.Repeat("Aa123", 10), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.pw)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
