package domain

import (
	"strings"
	"time"
)

// CanonicalSuffix is the platform's canonical shop domain suffix.
const CanonicalSuffix = ".myshopify.com"

// Store represents a connected merchant store
type Store struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	AccessToken string    `json:"-"`
	Scope       string    `json:"scope"`
	ShopName    string    `json:"shop_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Connected reports whether the store holds a usable access token.
func (s *Store) Connected() bool {
	return s.AccessToken != ""
}

// NormalizeDomain canonicalizes a shop domain: trims whitespace and any
// scheme or trailing slash, lowercases, and appends the canonical suffix
// when it is missing. Idempotent under repeated application.
func NormalizeDomain(shop string) string {
	d := strings.ToLower(strings.TrimSpace(shop))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimSuffix(d, "/")
	if d == "" {
		return ""
	}
	if !strings.HasSuffix(d, CanonicalSuffix) {
		d += CanonicalSuffix
	}
	return d
}
