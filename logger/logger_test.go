package logger

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "regular address", input: "jonathan@example.com", want: "jo...n@example.com"},
		{name: "short local part", input: "al@example.com", want: "**@example.com"},
		{name: "not an address", input: "nonsense-value", want: "no...ue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.input))
		})
	}
}

func TestMaskSensitiveString(t *testing.T) {
	assert.Equal(t, "", MaskSensitiveString("", 2, 2))
	assert.Equal(t, "****", MaskSensitiveString("abcd", 2, 2))
	assert.Equal(t, "ab...yz", MaskSensitiveString("abcdefwxyz", 2, 2))
}

func TestFilterSensitiveHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abc")
	headers.Set("X-Api-Key", "k")
	headers.Set("Content-Type", "application/x-www-form-urlencoded")

	filtered := filterSensitiveHeaders(headers)
	assert.Equal(t, "[REDACTED]", filtered["Authorization"])
	assert.Equal(t, "[REDACTED]", filtered["X-Api-Key"])
	assert.Equal(t, "application/x-www-form-urlencoded", filtered["Content-Type"])
}

func TestGetLogger_ReturnsSameInstance(t *testing.T) {
	IsTest = true
	assert.Same(t, GetLogger(), GetLogger())
}
