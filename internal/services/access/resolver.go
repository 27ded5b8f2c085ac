// Package access decides which page a visitor may actually view.
package access

import "github.com/mcoot/festivalboard/internal/model"

// State is the authentication input to the resolver
type State struct {
	HasUser      bool
	HasCharacter bool
}

// StateSource exposes the current access state, typically the session store
type StateSource interface {
	AccessState() State
}

// Resolve maps a requested page to the page the visitor is allowed to see.
// Rules are evaluated in order:
//  1. the score page is always public
//  2. anonymous visitors are sent to login
//  3. users without a character cannot see home or account
//  4. users with a character cannot create another
//  5. logged-in users skip the login page
func Resolve(requested model.Page, state State) model.Page {
	if requested == model.PageScore {
		return model.PageScore
	}
	if !state.HasUser {
		return model.PageLogin
	}
	switch requested {
	case model.PageHome, model.PageAccount:
		if !state.HasCharacter {
			return model.PageCreate
		}
	case model.PageCreate:
		if state.HasCharacter {
			return model.PageHome
		}
	case model.PageLogin:
		return Landing(state)
	}
	if !requested.Valid() {
		return Landing(state)
	}
	return requested
}

// Landing is where a logged-in user goes after login or signup
func Landing(state State) model.Page {
	if !state.HasUser {
		return model.PageLogin
	}
	if state.HasCharacter {
		return model.PageHome
	}
	return model.PageCreate
}

// ResolveFor resolves against a live state source
func ResolveFor(src StateSource, requested model.Page) model.Page {
	return Resolve(requested, src.AccessState())
}
