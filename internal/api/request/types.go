package request

import (
	"math"

	"github.com/mcoot/festivalboard/internal/model"
)

// UpsertPlayerRequest is the request body for POST /players.
// Numbers are decoded as floats so fractional scores are floored, not rejected.
type UpsertPlayerRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	Color       string   `json:"color"`
	Accessories []string `json:"accessories"`
	MBTI        string   `json:"mbti"`
	CreatedAt   float64  `json:"createdAt"`
	Game1       float64  `json:"game1"`
	Game2       float64  `json:"game2"`
	Game3       float64  `json:"game3"`
	Game4       float64  `json:"game4"`
}

// ToModel converts the request into a player payload
func (r UpsertPlayerRequest) ToModel() model.PlayerPayload {
	return model.PlayerPayload{
		Username:    r.Username,
		Password:    r.Password,
		Name:        r.Name,
		Avatar:      r.Avatar,
		Color:       r.Color,
		Accessories: r.Accessories,
		MBTI:        r.MBTI,
		CreatedAt:   int64(math.Floor(r.CreatedAt)),
		Game1:       floor(r.Game1),
		Game2:       floor(r.Game2),
		Game3:       floor(r.Game3),
		Game4:       floor(r.Game4),
	}
}

// ScoreUpdateRequest is the request body for POST /scores
type ScoreUpdateRequest struct {
	Username   string  `json:"username"`
	GameColumn string  `json:"gameColumn"`
	Score      float64 `json:"score"`
	Password   string  `json:"password"`
}

// ToModel converts the request into a score update
func (r ScoreUpdateRequest) ToModel() model.ScoreUpdate {
	return model.ScoreUpdate{
		Username:   r.Username,
		GameColumn: r.GameColumn,
		Score:      floor(r.Score),
		Password:   r.Password,
	}
}

// floor truncates toward negative infinity and saturates at the int32 range,
// so negative input stays negative and is rejected downstream.
func floor(f float64) int {
	switch {
	case math.IsNaN(f):
		return -1
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Floor(f))
}
