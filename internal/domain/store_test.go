package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare name gets suffix", "my-store", "my-store.myshopify.com"},
		{"full domain unchanged", "my-store.myshopify.com", "my-store.myshopify.com"},
		{"https scheme stripped", "https://my-store.myshopify.com", "my-store.myshopify.com"},
		{"http scheme stripped", "http://my-store", "my-store.myshopify.com"},
		{"trailing slash stripped", "https://my-store.myshopify.com/", "my-store.myshopify.com"},
		{"uppercase lowered", "My-Store", "my-store.myshopify.com"},
		{"surrounding whitespace trimmed", "  my-store  ", "my-store.myshopify.com"},
		{"empty stays empty", "", ""},
		{"whitespace only stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDomain(tt.input))
		})
	}
}

func TestNormalizeDomain_Idempotent(t *testing.T) {
	inputs := []string{"my-store", "https://My-Store/", "my-store.myshopify.com"}

	for _, input := range inputs {
		once := NormalizeDomain(input)
		assert.Equal(t, once, NormalizeDomain(once))
	}
}

func TestStore_Connected(t *testing.T) {
	assert.False(t, (&Store{Domain: "a.myshopify.com"}).Connected())
	assert.True(t, (&Store{Domain: "a.myshopify.com", AccessToken: "shpat_x"}).Connected())
}
