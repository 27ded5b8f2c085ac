package model

// PlayerRecord is a player as listed by the remote service (GET /players).
// Scores travel in generic columns game1..game4, mapped in GameModes order.
type PlayerRecord struct {
	ID          string   `json:"id,omitempty"`
	Username    string   `json:"username"`
	Password    string   `json:"password,omitempty"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	Color       string   `json:"color"`
	Accessories []string `json:"accessories,omitempty"`
	MBTI        string   `json:"mbti,omitempty"`
	CreatedAt   int64    `json:"createdAt,omitempty"`
	TotalScore  *int     `json:"totalScore,omitempty"`
	Game1       *int     `json:"game1,omitempty"`
	Game2       *int     `json:"game2,omitempty"`
	Game3       *int     `json:"game3,omitempty"`
	Game4       *int     `json:"game4,omitempty"`
}

// PlayerPayload is the upsert body for POST /players
type PlayerPayload struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	Color       string   `json:"color"`
	Accessories []string `json:"accessories"`
	MBTI        string   `json:"mbti,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	Game1       int      `json:"game1"`
	Game2       int      `json:"game2"`
	Game3       int      `json:"game3"`
	Game4       int      `json:"game4"`
}

// Columns returns the payload scores in column order
func (p PlayerPayload) Columns() [4]int {
	return [4]int{p.Game1, p.Game2, p.Game3, p.Game4}
}

// ScoreUpdate is the body for the narrower POST /scores endpoint.
// Password is the endpoint's shared secret, not the player's password.
type ScoreUpdate struct {
	Username   string `json:"username"`
	GameColumn string `json:"gameColumn"`
	Score      int    `json:"score"`
	Password   string `json:"password"`
}

// Clone deep-copies the record
func (r *PlayerRecord) Clone() *PlayerRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Accessories = append([]string(nil), r.Accessories...)
	for _, p := range []**int{&out.TotalScore, &out.Game1, &out.Game2, &out.Game3, &out.Game4} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return &out
}

func (r *PlayerRecord) columns() [4]**int {
	return [4]**int{&r.Game1, &r.Game2, &r.Game3, &r.Game4}
}

// SetColumn sets one score column. It reports false for an unknown column.
func (r *PlayerRecord) SetColumn(column string, score int) bool {
	for i, m := range GameModes {
		if m.Label == column {
			*r.columns()[i] = &score
			return true
		}
	}
	return false
}

// RecomputeTotal sets TotalScore to the sum of the columns, missing as 0
func (r *PlayerRecord) RecomputeTotal() {
	total := 0
	for _, c := range r.columns() {
		if *c != nil {
			total += **c
		}
	}
	r.TotalScore = &total
}
