package domain

import "time"

// Account is a registered user. PasswordHash is empty for accounts created
// through a federated identity provider; such accounts cannot sign in with
// a password until one is set.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ShortBio     string
	About        string
	CreatedAt    time.Time
}

// HasPassword reports whether password sign-in is configured for the account.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// Profile is the client-facing view of an account. It never carries the
// password hash.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ShortBio string `json:"shortBio"`
	About    string `json:"about"`
}

// ProfileOf converts an account to its client-facing view.
func ProfileOf(a *Account) Profile {
	return Profile{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		ShortBio: a.ShortBio,
		About:    a.About,
	}
}

// ProfileUpdate carries a partial profile edit. Nil fields were not provided
// and are left unchanged; a pointer to an empty string clears the field.
type ProfileUpdate struct {
	Name     *string
	ShortBio *string
	About    *string
}
