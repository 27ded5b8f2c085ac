package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/festivalboard/internal/model"
)

func TestPageToPathRoundTrip(t *testing.T) {
	for _, p := range model.Pages {
		assert.Equal(t, p, PathToPage(PageToPath(p)))
	}
}

func TestPathToPage(t *testing.T) {
	tests := []struct {
		path string
		want model.Page
	}{
		{"/home", model.PageHome},
		{"/home/", model.PageHome},
		{"/HOME//", model.PageHome},
		{"/Score", model.PageScore},
		{"/account?tab=1", model.PageAccount},
		{"", model.PageLogin},
		{"/", model.PageLogin},
		{"/nowhere", model.PageLogin},
		{"/home/extra", model.PageLogin},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PathToPage(tt.path))
		})
	}
}

func TestPageToPathUnknown(t *testing.T) {
	assert.Equal(t, "/login", PageToPath("bogus"))
}
