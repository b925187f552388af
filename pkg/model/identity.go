package model

import (
	"regexp"
	"strings"
)

// DefaultEmailDomain is the organizational domain accepted at onboarding.
// Changing the accepted domain is configuration, not code.
const DefaultEmailDomain = "det.nsw.edu.au"

// Identity is the (name, email) tuple identifying one reflection history.
// It is captured at onboarding and does not change within a session.
type Identity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DisplayName returns the full name for prompts and mail templates.
func (x Identity) DisplayName() string {
	return strings.TrimSpace(x.FirstName + " " + x.LastName)
}

// Complete reports whether the identity can leave onboarding: both names
// non-blank and the email accepted by pattern.
func (x Identity) Complete(pattern *regexp.Regexp) bool {
	return ValidName(x.FirstName) && ValidName(x.LastName) &&
		pattern.MatchString(strings.TrimSpace(x.Email))
}

// ValidName reports whether s is non-blank after trimming.
func ValidName(s string) bool {
	return strings.TrimSpace(s) != ""
}

// EmailPattern builds the acceptance pattern for one organizational domain.
// The check is purely syntactic: this is a client-side gate, not a security
// boundary, so no DNS or mailbox verification is involved.
func EmailPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(domain) + `$`)
}

// ProfileKey partitions durable storage by identity. Keys are derived from
// the email alone so that histories survive across sessions.
type ProfileKey string

// NewProfileKey normalizes email (trim + lowercase) so that two spellings of
// the same address always resolve to the same stored history.
func NewProfileKey(email string) ProfileKey {
	return ProfileKey(strings.ToLower(strings.TrimSpace(email)))
}

// Key returns the profile key for this identity.
func (x Identity) Key() ProfileKey {
	return NewProfileKey(x.Email)
}
