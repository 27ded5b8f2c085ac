package model

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Appearance limits
const (
	MinNameLength  = 2
	MaxNameLength  = 20
	MaxAccessories = 3
)

// Personality is one of the 16 fixed personality-type tags
type Personality string

// Personalities lists every accepted personality tag
var Personalities = [16]Personality{
	"INTJ", "INTP", "ENTJ", "ENTP",
	"INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ",
	"ISTP", "ISFP", "ESTP", "ESFP",
}

// ParsePersonality matches a tag case-insensitively
func ParsePersonality(s string) (Personality, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, p := range Personalities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// DecorationKind selects which decorative attribute a character carries
type DecorationKind string

const (
	DecorationAccessories DecorationKind = "accessories"
	DecorationPersonality DecorationKind = "personality"
)

// Decoration is the variable decorative attribute of an appearance.
// Exactly one of Accessories or Personality is meaningful, chosen by Kind.
type Decoration struct {
	Kind        DecorationKind
	Accessories []string
	Personality Personality
}

// AccessoryDecoration builds an accessories-based decoration
func AccessoryDecoration(tags ...string) Decoration {
	out := make([]string, 0, len(tags))
	out = append(out, tags...)
	return Decoration{Kind: DecorationAccessories, Accessories: out}
}

// PersonalityDecoration builds a personality-tag decoration
func PersonalityDecoration(p Personality) Decoration {
	return Decoration{Kind: DecorationPersonality, Personality: p}
}

// Clone deep-copies the decoration
func (d Decoration) Clone() Decoration {
	if d.Kind == DecorationPersonality {
		return PersonalityDecoration(d.Personality)
	}
	return AccessoryDecoration(d.Accessories...)
}

// Validate checks the decoration against its kind's limits
func (d Decoration) Validate() error {
	switch d.Kind {
	case DecorationPersonality:
		if _, ok := ParsePersonality(string(d.Personality)); !ok {
			return ErrInvalidPersonality
		}
	case DecorationAccessories, "":
		if len(d.Accessories) > MaxAccessories {
			return ErrTooManyAccessories
		}
	default:
		return ErrInvalidDecoration
	}
	return nil
}

// Appearance is the user-editable part of a character
type Appearance struct {
	Name       string
	Avatar     string
	Color      string
	Decoration Decoration
}

// Normalized trims the name and fills in an empty decoration kind
func (a Appearance) Normalized() Appearance {
	a.Name = strings.TrimSpace(a.Name)
	a.Decoration = a.Decoration.Clone()
	if a.Decoration.Kind == DecorationPersonality {
		a.Decoration.Personality, _ = ParsePersonality(string(a.Decoration.Personality))
	}
	return a
}

// Validate checks name length and the decoration
func (a Appearance) Validate() error {
	name := strings.TrimSpace(a.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		return ErrNameRequired
	case n < MinNameLength:
		return ErrNameTooShort
	case n > MaxNameLength:
		return ErrNameTooLong
	}
	return a.Decoration.Validate()
}

// Character is a user's persona plus its score record.
// TotalScore must equal the sum of GameScores after every mutation.
type Character struct {
	ID string
	Appearance
	CreatedAt  int64 // epoch milliseconds
	GameScores GameScores
	TotalScore int
}

// Clone deep-copies the character
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Appearance.Decoration = c.Decoration.Clone()
	out.GameScores = c.GameScores.Clone()
	return &out
}

type characterJSON struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Avatar      string             `json:"avatar"`
	Color       string             `json:"color"`
	Accessories []string           `json:"accessories,omitempty"`
	MBTI        string             `json:"mbti,omitempty"`
	CreatedAt   int64              `json:"createdAt"`
	GameScores  map[GameModeID]int `json:"gameScores"`
	TotalScore  int                `json:"totalScore"`
}

// MarshalJSON flattens the decoration into accessories or mbti.
// Decoding goes through the normalizer, never through encoding/json.
func (c Character) MarshalJSON() ([]byte, error) {
	out := characterJSON{
		ID:         c.ID,
		Name:       c.Name,
		Avatar:     c.Avatar,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt,
		GameScores: c.GameScores.Clone(),
		TotalScore: c.TotalScore,
	}
	if c.Decoration.Kind == DecorationPersonality {
		out.MBTI = string(c.Decoration.Personality)
	} else {
		out.Accessories = append([]string{}, c.Decoration.Accessories...)
	}
	return json.Marshal(out)
}

// AppearanceUpdate holds the appearance fields a user changed; nil fields
// keep their current value.
type AppearanceUpdate struct {
	Name       *string
	Avatar     *string
	Color      *string
	Decoration *Decoration
}

// Apply merges the changed fields onto a
func (u AppearanceUpdate) Apply(a Appearance) Appearance {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Avatar != nil {
		a.Avatar = *u.Avatar
	}
	if u.Color != nil {
		a.Color = *u.Color
	}
	if u.Decoration != nil {
		a.Decoration = u.Decoration.Clone()
	}
	return a.Normalized()
}

// Empty reports whether nothing changed
func (u AppearanceUpdate) Empty() bool {
	return u.Name == nil && u.Avatar == nil && u.Color == nil && u.Decoration == nil
}
