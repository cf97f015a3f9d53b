// Package identity derives the human-readable IDs used across the
// service (users, organizers, events, tickets) from natural keys.
// Collisions are resolved by numeric suffixing: the first taken ID gets
// no suffix, the next gets "1", then "2" and so on.  The suffix loop
// itself is not race-safe; stores must treat a generated ID as
// provisional and retry with the next suffix on a unique-key violation.
package identity

import (
	"strconv"
	"strings"
)

// Slug reduces a natural key to lowercase alphanumerics.  Spaces and
// punctuation are dropped rather than replaced so "Jane O'Neil" and
// "janeoneil" collide and get disambiguated by suffix.
func Slug(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		for _, r := range strings.ToLower(p) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// TicketID builds the deterministic composite identifier for one
// admission unit.  The seat segment is omitted for general admission
// (blank seat label) so a GA ticket for the same event/user/class still
// collides with another GA ticket and picks up a suffix.
func TicketID(eventID, userID, className, seatLabel string) string {
	segs := []string{eventID, userID, Slug(className)}
	if seatLabel != "" {
		segs = append(segs, Slug(seatLabel))
	}
	return strings.Join(segs, "-")
}

// WithSuffix returns the n-th candidate for a base ID: the base itself
// for n == 0, otherwise the base with the decimal suffix appended.
func WithSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + strconv.Itoa(n)
}
