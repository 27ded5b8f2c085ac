package local

import (
	"strconv"
	"time"

	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/scoring"
)

const demoPassword = "1"

type demoUser struct {
	username   string
	appearance model.Appearance
	scores     [4]int
	age        time.Duration
}

var demoUsers = []demoUser{
	{
		username: "1",
		appearance: model.Appearance{
			Name: "불타는 호랑이", Avatar: "🐯", Color: "#FF6B35",
			Decoration: model.AccessoryDecoration("왕관", "목걸이"),
		},
		scores: [4]int{4200, 3600, 3100, 3900},
		age:    24 * time.Hour,
	},
	{
		username: "mystic",
		appearance: model.Appearance{
			Name: "신비한 용", Avatar: "🐉", Color: "#4ECDC4",
			Decoration: model.AccessoryDecoration("마법지팡이"),
		},
		scores: [4]int{3600, 3800, 3300, 4100},
		age:    48 * time.Hour,
	},
	{
		username: "bunny",
		appearance: model.Appearance{
			Name: "귀여운 토끼", Avatar: "🐰", Color: "#FFD93D",
			Decoration: model.AccessoryDecoration("모자"),
		},
		scores: [4]int{3100, 2900, 3500, 3300},
		age:    72 * time.Hour,
	},
}

// DemoUsers returns the demo accounts used to populate an empty local profile
func DemoUsers(clk clock.Clock) func() []*model.User {
	return func() []*model.User {
		now := clk.Now()
		users := make([]*model.User, 0, len(demoUsers))
		for i, d := range demoUsers {
			scores := make(model.GameScores, len(model.GameModes))
			for j, m := range model.GameModes {
				scores[m.ID] = d.scores[j]
			}
			users = append(users, &model.User{
				Username: d.username,
				Password: demoPassword,
				Character: &model.Character{
					ID:         strconv.Itoa(i + 1),
					Appearance: d.appearance.Normalized(),
					CreatedAt:  now.Add(-d.age).UnixMilli(),
					GameScores: scores,
					TotalScore: scoring.TotalScore(scores),
				},
			})
		}
		return users
	}
}
