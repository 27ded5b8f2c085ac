package model

// Page is one of the application's logical pages
type Page string

const (
	PageLogin   Page = "login"
	PageHome    Page = "home"
	PageCreate  Page = "create"
	PageAccount Page = "account"
	PageScore   Page = "score"
)

// Pages lists every logical page
var Pages = [5]Page{PageLogin, PageHome, PageCreate, PageAccount, PageScore}

// Valid reports whether p is a known page
func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// Session is the process-wide client state: who is logged in and where they are
type Session struct {
	CurrentUser string // display username, empty when logged out
	CurrentPage Page
}

// Authenticated reports whether a user is logged in
func (s Session) Authenticated() bool {
	return s.CurrentUser != ""
}
