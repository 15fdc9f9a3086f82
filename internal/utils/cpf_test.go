package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare digits", "12345678901", "12345678901", true},
		{"standard mask", "123.456.789-01", "12345678901", true},
		{"spaces tolerated", " 123 456 789 01 ", "12345678901", true},
		{"too short", "1234567890", "", false},
		{"too long", "123456789012", "", false},
		{"letters rejected", "123.456.789-0a", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeCPF(tc.in)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ana@example.com"))
	assert.False(t, ValidEmail("anaexample.com"))
	assert.False(t, ValidEmail("@example.com"))
	assert.False(t, ValidEmail("ana@"))
	assert.False(t, ValidEmail(""))
}
