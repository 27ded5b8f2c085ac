package scoring

import (
	"math"

	"github.com/mcoot/festivalboard/internal/dependencies/random"
	"github.com/mcoot/festivalboard/internal/model"
)

// Synthesized score range for characters with no prior data: [4000, 6000)
const (
	randomScoreBase  = 4000
	randomScoreRange = 2000
)

// MaxScore is the largest per-mode score the players service stores
const MaxScore = math.MaxInt32

// Legacy redistribution jitter: [-300, 300)
const (
	jitterRange  = 600
	jitterOffset = 300
)

// TotalScore sums the scores of every enumerated game mode.
// Missing modes count as 0.
func TotalScore(scores model.GameScores) int {
	total := 0
	for _, m := range model.GameModes {
		total += scores.Get(m.ID)
	}
	return total
}

// EmptyScores returns a zeroed score for every mode
func EmptyScores() model.GameScores {
	scores := make(model.GameScores, len(model.GameModes))
	for _, m := range model.GameModes {
		scores[m.ID] = 0
	}
	return scores
}

// WithScore returns a copy of scores with one mode replaced
func WithScore(scores model.GameScores, id model.GameModeID, score int) model.GameScores {
	out := scores.Clone()
	out[id] = score
	return out
}

// Service synthesizes scores where no breakdown exists
type Service struct {
	random random.Random
}

// New creates a new scoring Service
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// RandomScores returns a plausible score in [4000, 6000) for every mode
func (s *Service) RandomScores() model.GameScores {
	scores := make(model.GameScores, len(model.GameModes))
	for _, m := range model.GameModes {
		scores[m.ID] = randomScoreBase + s.random.Intn(randomScoreRange)
	}
	return scores
}

// Distribute spreads a legacy aggregate total across the modes so that the
// per-mode values are non-negative and sum exactly to total (capped at
// MaxScore).
// A zero total yields zeroed scores; negative or non-finite totals have no
// meaningful breakdown and fall back to RandomScores.
func (s *Service) Distribute(total float64) model.GameScores {
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return s.RandomScores()
	}
	// Legacy totals beyond the column range are capped, so the breakdown
	// sums to MaxScore rather than total.
	total = math.Min(total, MaxScore)
	target := int(math.Floor(total))
	if target == 0 {
		return EmptyScores()
	}

	n := len(model.GameModes)
	base := target / n
	remainder := target - base*n

	scores := make(model.GameScores, n)
	for _, m := range model.GameModes {
		value := base + s.random.Intn(jitterRange) - jitterOffset
		if remainder > 0 {
			value++
			remainder--
		}
		scores[m.ID] = max(0, value)
	}

	settle(scores, target)
	return scores
}

// settle forces the residual into the first mode. If clamping the first mode
// at zero leaves a surplus, the surplus is taken from the following modes.
func settle(scores model.GameScores, target int) {
	diff := target - TotalScore(scores)
	if diff == 0 {
		return
	}
	first := model.GameModes[0].ID
	adjusted := scores[first] + diff
	scores[first] = max(0, adjusted)

	surplus := -min(0, adjusted)
	for _, m := range model.GameModes[1:] {
		if surplus == 0 {
			break
		}
		take := min(surplus, scores[m.ID])
		scores[m.ID] -= take
		surplus -= take
	}
}

// ServiceInterface is the dependency-injection surface of Service
type ServiceInterface interface {
	RandomScores() model.GameScores
	Distribute(total float64) model.GameScores
}

var _ ServiceInterface = (*Service)(nil)
