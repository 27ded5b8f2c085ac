package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// User is a registered account, optionally owning a character
type User struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"` // empty means no password required
	Character *Character `json:"character,omitempty"`
}

// HasCharacter reports whether the user has created a character
func (u *User) HasCharacter() bool {
	return u != nil && u.Character != nil
}

// Clone deep-copies the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Character = u.Character.Clone()
	return &out
}

// CanonicalUsername is the lookup key for a username: trimmed,
// NFC-normalized and case-folded. Display spelling is kept on the User.
func CanonicalUsername(username string) string {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(norm.NFC.String(trimmed))
}
