package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/festivalboard/internal/model"
)

func TestResolveGrid(t *testing.T) {
	anon := State{}
	bare := State{HasUser: true}
	full := State{HasUser: true, HasCharacter: true}

	tests := []struct {
		requested model.Page
		state     State
		want      model.Page
	}{
		{model.PageLogin, anon, model.PageLogin},
		{model.PageLogin, bare, model.PageCreate},
		{model.PageLogin, full, model.PageHome},

		{model.PageHome, anon, model.PageLogin},
		{model.PageHome, bare, model.PageCreate},
		{model.PageHome, full, model.PageHome},

		{model.PageCreate, anon, model.PageLogin},
		{model.PageCreate, bare, model.PageCreate},
		{model.PageCreate, full, model.PageHome},

		{model.PageAccount, anon, model.PageLogin},
		{model.PageAccount, bare, model.PageCreate},
		{model.PageAccount, full, model.PageAccount},

		{model.PageScore, anon, model.PageScore},
		{model.PageScore, bare, model.PageScore},
		{model.PageScore, full, model.PageScore},
	}

	for _, tt := range tests {
		t.Run(string(tt.requested), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.requested, tt.state), "state %+v", tt.state)
		})
	}
}

func TestResolveIgnoresCharacterWithoutUser(t *testing.T) {
	assert.Equal(t, model.PageLogin, Resolve(model.PageHome, State{HasCharacter: true}))
}

func TestResolveUnknownPageLandsUser(t *testing.T) {
	assert.Equal(t, model.PageLogin, Resolve("bogus", State{}))
	assert.Equal(t, model.PageHome, Resolve("bogus", State{HasUser: true, HasCharacter: true}))
}

type fixedSource State

func (f fixedSource) AccessState() State { return State(f) }

func TestResolveFor(t *testing.T) {
	src := fixedSource{HasUser: true}
	assert.Equal(t, model.PageCreate, ResolveFor(src, model.PageAccount))
}
