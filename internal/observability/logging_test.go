package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"anu.thomas@example.com", "a****@example.com"},
		{"x@y.in", "x****@y.in"},
		{"no-at-sign", "****"},
		{"@example.com", "****"},
		{"", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}

func TestMaskAadhaar(t *testing.T) {
	assert.Equal(t, "XXXX-XXXX-9012", MaskAadhaar("123456789012"))
	assert.Equal(t, "XXXX-XXXX-XXXX", MaskAadhaar("1234"))
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "*********3210", MaskPhone("+919876543210"))
	assert.Equal(t, "****", MaskPhone("12"))
}
