package auth

import "strings"

// Allowlist is the set of emails allowed to use the admin API. Having a
// credential is not enough; the email must also be listed here.
type Allowlist struct {
	emails map[string]struct{}
}

// NewAllowlist builds an allowlist from configured emails. Comparison is
// case-insensitive; blanks are ignored.
func NewAllowlist(emails []string) *Allowlist {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return &Allowlist{emails: set}
}

// Allowed reports whether the email may administer the catalog.
func (a *Allowlist) Allowed(email string) bool {
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
