// Package normalizer repairs arbitrary persisted or remote player data into
// canonical model values. Every function here is total: malformed input
// degrades to defaults instead of failing.
package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mcoot/festivalboard/internal/dependencies/clock"
	"github.com/mcoot/festivalboard/internal/model"
	"github.com/mcoot/festivalboard/internal/services/scoring"
)

// Fallbacks for missing appearance fields
const (
	DefaultName   = "플레이어"
	DefaultAvatar = "🎮"
	DefaultColor  = "#FF6B35"
)

// Normalizer converts raw JSON documents into characters and users
type Normalizer struct {
	clock   clock.Clock
	scoring scoring.ServiceInterface
}

// New creates a Normalizer
func New(clk clock.Clock, scores scoring.ServiceInterface) *Normalizer {
	return &Normalizer{clock: clk, scoring: scores}
}

// scoreSource looks up an explicit per-mode score in a raw record
type scoreSource func(raw gjson.Result, mode model.GameMode) gjson.Result

func semanticScore(raw gjson.Result, mode model.GameMode) gjson.Result {
	return raw.Get("gameScores." + string(mode.ID))
}

func columnScore(raw gjson.Result, mode model.GameMode) gjson.Result {
	return raw.Get(mode.Label)
}

// CharacterBytes normalizes a raw JSON character document
func (n *Normalizer) CharacterBytes(raw []byte) model.Character {
	return n.Character(parse(raw))
}

// Character normalizes a parsed character value
func (n *Normalizer) Character(raw gjson.Result) model.Character {
	return n.character(raw, semanticScore)
}

func (n *Normalizer) character(raw gjson.Result, sources ...scoreSource) model.Character {
	if !raw.IsObject() {
		raw = gjson.Result{}
	}
	now := clock.Millis(n.clock)

	c := model.Character{
		ID: idField(raw.Get("id"), now),
		Appearance: model.Appearance{
			Name:       stringField(raw.Get("name"), DefaultName),
			Avatar:     stringField(raw.Get("avatar"), DefaultAvatar),
			Color:      stringField(raw.Get("color"), DefaultColor),
			Decoration: decoration(raw),
		},
		CreatedAt: now,
	}
	if created := raw.Get("createdAt"); created.Type == gjson.Number && created.Float() >= 0 {
		c.CreatedAt = created.Int()
	}

	c.GameScores = n.gameScores(raw, sources)
	c.TotalScore = scoring.TotalScore(c.GameScores)
	return c
}

// gameScores resolves each mode: explicit value, else legacy aggregate
// redistributed, else a synthesized plausible score.
func (n *Normalizer) gameScores(raw gjson.Result, sources []scoreSource) model.GameScores {
	explicit := make(map[model.GameModeID]int, len(model.GameModes))
	for _, m := range model.GameModes {
		for _, source := range sources {
			if v := source(raw, m); v.Type == gjson.Number {
				explicit[m.ID] = clampScore(v.Float())
				break
			}
		}
	}

	var legacy, fallback model.GameScores
	if score := raw.Get("score"); score.Type == gjson.Number {
		legacy = n.scoring.Distribute(score.Float())
	} else if total := raw.Get("totalScore"); total.Type == gjson.Number && len(explicit) == 0 {
		// A bare total with no breakdown is treated as a legacy aggregate
		legacy = n.scoring.Distribute(total.Float())
	}

	scores := make(model.GameScores, len(model.GameModes))
	for _, m := range model.GameModes {
		if v, ok := explicit[m.ID]; ok {
			scores[m.ID] = v
			continue
		}
		if legacy != nil {
			scores[m.ID] = legacy[m.ID]
			continue
		}
		if fallback == nil {
			fallback = n.scoring.RandomScores()
		}
		scores[m.ID] = fallback[m.ID]
	}
	return scores
}

// UsersBytes normalizes a users snapshot: an object keyed by username.
// Non-object roots and non-object entries are dropped.
func (n *Normalizer) UsersBytes(raw []byte) []*model.User {
	root := parse(raw)
	if !root.IsObject() {
		return nil
	}

	var users []*model.User
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		username := stringField(value.Get("username"), strings.TrimSpace(key.String()))
		if username == "" {
			return true
		}
		user := &model.User{
			Username: username,
			Password: stringField(value.Get("password"), ""),
		}
		if ch := value.Get("character"); ch.IsObject() {
			character := n.Character(ch)
			user.Character = &character
		}
		users = append(users, user)
		return true
	})
	return users
}

// PlayerRecordsBytes normalizes a GET /players response. The root must be
// an array; anything else is a fatal load error.
func (n *Normalizer) PlayerRecordsBytes(raw []byte) ([]*model.User, error) {
	root := parse(raw)
	if !root.IsArray() {
		return nil, model.ErrInvalidSnapshot
	}

	var users []*model.User
	root.ForEach(func(_, value gjson.Result) bool {
		if user := n.PlayerRecord(value); user != nil {
			users = append(users, user)
		}
		return true
	})
	return users, nil
}

// PlayerRecord converts one remote record into a user with a character.
// Columns game1..game4 map onto the modes in GameModes order.
// Records without a username are unusable and yield nil.
func (n *Normalizer) PlayerRecord(raw gjson.Result) *model.User {
	if !raw.IsObject() {
		return nil
	}
	username := stringField(raw.Get("username"), "")
	if username == "" {
		return nil
	}
	character := n.character(raw, columnScore, semanticScore)
	return &model.User{
		Username:  username,
		Password:  stringField(raw.Get("password"), ""),
		Character: &character,
	}
}

// ToPlayerPayload is the reverse of PlayerRecord, used when persisting a
// user to the remote service.
func ToPlayerPayload(u *model.User) (model.PlayerPayload, error) {
	if !u.HasCharacter() {
		return model.PlayerPayload{}, model.ErrNoCharacter
	}
	c := u.Character
	p := model.PlayerPayload{
		Username:    u.Username,
		Password:    u.Password,
		Name:        c.Name,
		Avatar:      c.Avatar,
		Color:       c.Color,
		Accessories: []string{},
		CreatedAt:   c.CreatedAt,
	}
	if c.Decoration.Kind == model.DecorationPersonality {
		p.MBTI = string(c.Decoration.Personality)
	} else {
		p.Accessories = append(p.Accessories, c.Decoration.Accessories...)
	}

	columns := [4]*int{&p.Game1, &p.Game2, &p.Game3, &p.Game4}
	for i, m := range model.GameModes {
		*columns[i] = c.GameScores.Get(m.ID)
	}
	return p, nil
}

func parse(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

func stringField(v gjson.Result, fallback string) string {
	if v.Type != gjson.String {
		return fallback
	}
	if s := strings.TrimSpace(v.Str); s != "" {
		return s
	}
	return fallback
}

func idField(v gjson.Result, now int64) string {
	switch v.Type {
	case gjson.String:
		if s := strings.TrimSpace(v.Str); s != "" {
			return s
		}
	case gjson.Number:
		if f := v.Float(); f >= 0 && f == math.Trunc(f) {
			return strconv.FormatInt(v.Int(), 10)
		}
	}
	return strconv.FormatInt(now, 10)
}

// decoration prefers a valid personality tag, then an accessories array
func decoration(raw gjson.Result) model.Decoration {
	for _, key := range []string{"mbti", "personality"} {
		if v := raw.Get(key); v.Type == gjson.String {
			if p, ok := model.ParsePersonality(v.Str); ok {
				return model.PersonalityDecoration(p)
			}
		}
	}

	tags := []string{}
	if arr := raw.Get("accessories"); arr.IsArray() {
		arr.ForEach(func(_, v gjson.Result) bool {
			if s := strings.TrimSpace(v.String()); v.Type == gjson.String && s != "" {
				tags = append(tags, s)
			}
			return len(tags) < model.MaxAccessories
		})
	}
	return model.AccessoryDecoration(tags...)
}

func clampScore(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= scoring.MaxScore:
		return scoring.MaxScore
	default:
		return int(math.Floor(f))
	}
}
