package http

import (
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", time.Hour)

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Verify() = %q, want user-1", userID)
	}
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", time.Hour)

	tests := []struct {
		name  string
		token func() string
	}{
		{
			name:  "garbage token",
			token: func() string { return "not.a.token" },
		},
		{
			name:  "empty token",
			token: func() string { return "" },
		},
		{
			name: "wrong secret",
			token: func() string {
				other := NewTokenIssuer("fedcba9876543210", time.Hour)
				tok, _ := other.Issue("user-1")
				return tok
			},
		},
		{
			name: "expired token",
			token: func() string {
				expired := NewTokenIssuer("0123456789abcdef", -time.Minute)
				tok, _ := expired.Issue("user-1")
				return tok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token()); err != ErrInvalidToken {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
