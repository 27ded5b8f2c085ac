package response

import (
	"github.com/mcoot/festivalboard/internal/model"
)

// Player is a player record as returned by the players endpoints.
// The password is included: the client verifies logins against this list.
type Player struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	Color       string   `json:"color"`
	Accessories []string `json:"accessories"`
	MBTI        string   `json:"mbti,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	TotalScore  int      `json:"totalScore"`
	Game1       int      `json:"game1"`
	Game2       int      `json:"game2"`
	Game3       int      `json:"game3"`
	Game4       int      `json:"game4"`
}

// PlayerFromModel converts a model.PlayerRecord to a response Player
func PlayerFromModel(r *model.PlayerRecord) Player {
	accessories := r.Accessories
	if accessories == nil {
		accessories = []string{}
	}
	return Player{
		ID:          r.ID,
		Username:    r.Username,
		Password:    r.Password,
		Name:        r.Name,
		Avatar:      r.Avatar,
		Color:       r.Color,
		Accessories: accessories,
		MBTI:        r.MBTI,
		CreatedAt:   r.CreatedAt,
		TotalScore:  deref(r.TotalScore),
		Game1:       deref(r.Game1),
		Game2:       deref(r.Game2),
		Game3:       deref(r.Game3),
		Game4:       deref(r.Game4),
	}
}

// PlayersFromModel converts a list of records; the result is never nil
func PlayersFromModel(recs []*model.PlayerRecord) []Player {
	out := make([]Player, len(recs))
	for i, r := range recs {
		out[i] = PlayerFromModel(r)
	}
	return out
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
