package engine

import (
	"math"
	"strings"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

const (
	baseScorePerWord = 2
	baseScoreCap     = 60.0
	timeBonusMax     = 30.0
	timeBonusDecay   = 0.05 // points lost per elapsed second
	exampleBonus     = 10.0
	quantizeStep     = 5
)

// DefaultExampleMarkers are the substrings that signal the answer walks
// through a concrete example. The Korean markers come first; the product
// launched in Korean.
var DefaultExampleMarkers = []string{"예시", "예를 들어", "for example", "e.g."}

// Scorer computes provisional scores from answer text and elapsed time.
// It holds no mutable state, so a single instance is safe for concurrent use.
type Scorer struct {
	markers []string
}

// NewScorer creates a scorer. With no arguments it uses
// DefaultExampleMarkers as the example-signal token set.
func NewScorer(markers ...string) *Scorer {
	if len(markers) == 0 {
		markers = DefaultExampleMarkers
	}
	return &Scorer{markers: markers}
}

// Score is a pure function of its inputs: the same text and elapsed seconds
// always produce the same snapshot, and no I/O happens here.
//
// The heuristic rewards length up to a 30-word cap, rewards fast
// articulation with a linearly decaying bonus that never goes negative, and
// grants a flat bonus when the answer includes an example marker. The result
// is clamped to [0, 100] and quantized to the nearest multiple of 5.
func (s *Scorer) Score(text string, elapsedSeconds int) model.ScoreSnapshot {
	words := strings.Fields(text)
	if len(words) == 0 {
		// Whitespace-only answers score zero with no bonuses.
		return model.ScoreSnapshot{}
	}

	base := math.Min(float64(len(words)*baseScorePerWord), baseScoreCap)
	timeBonus := math.Max(0, timeBonusMax-float64(elapsedSeconds)*timeBonusDecay)

	var quality float64
	for _, m := range s.markers {
		if strings.Contains(text, m) {
			quality = exampleBonus
			break
		}
	}

	raw := base + timeBonus + quality
	if raw > 100 {
		raw = 100
	}

	return model.ScoreSnapshot{
		Value:        int(math.Round(raw/quantizeStep)) * quantizeStep,
		WordCount:    len(words),
		BaseScore:    base,
		TimeBonus:    timeBonus,
		QualityBonus: quality,
	}
}
