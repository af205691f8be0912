package models

import (
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTClaims_IsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims *JWTClaims
		want   bool
	}{
		{"admin role", &JWTClaims{Role: RoleAdmin}, true},
		{"user role", &JWTClaims{Role: RoleUser}, false},
		{"empty role", &JWTClaims{}, false},
		{"nil claims", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.claims.IsAdmin(); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJWTClaims_JSONShape(t *testing.T) {
	claims := JWTClaims{
		Email: "anu@example.com",
		Role:  RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "65f1c0ffee",
			Issuer:  "ente-api",
		},
	}

	data, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for key, want := range map[string]string{"email": "anu@example.com", "role": "user", "sub": "65f1c0ffee", "iss": "ente-api"} {
		if decoded[key] != want {
			t.Errorf("claim %q = %v, want %v", key, decoded[key], want)
		}
	}
	if _, ok := decoded["username"]; ok {
		t.Errorf("empty username should be omitted")
	}
}
