// Package navigation keeps the current page and the location history in
// sync, applying the access rules on every transition.
package navigation

import (
	"strings"

	"github.com/mcoot/festivalboard/internal/model"
)

// PageToPath returns the canonical path for a page
func PageToPath(p model.Page) string {
	if !p.Valid() {
		return "/" + string(model.PageLogin)
	}
	return "/" + string(p)
}

// PathToPage parses a location path. Matching ignores case and trailing
// slashes; unknown, empty and root paths map to login.
func PathToPage(path string) model.Page {
	path = strings.ToLower(strings.TrimSpace(path))
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	page := model.Page(strings.TrimPrefix(path, "/"))
	if !page.Valid() {
		return model.PageLogin
	}
	return page
}
