package models

import "time"

// Token is an OAuth2 bearer token held only in process memory by the
// credential cache. The access token value must never be logged.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// UsableAt reports whether the token can still authenticate a request made
// at instant now, keeping the given safety margin before the recorded
// expiry.
func (t Token) UsableAt(now time.Time, margin time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-margin))
}
