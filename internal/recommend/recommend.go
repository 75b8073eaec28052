// Package recommend ranks kana by practice priority. The ranking is
// greedy and stateless: it is recomputed on demand from the current
// aggregate snapshot, and no queue is persisted.
package recommend

import (
	"sort"
	"time"

	"github.com/kanastudy/kanaprog/internal/domain"
)

// DefaultLimit is the number of recommendations returned when the
// caller does not override it.
const DefaultLimit = 10

// Base scores by lifecycle status. Never-seen kana outrank everything.
const (
	scoreNoRecord  = 100.0
	scoreNew       = 90.0
	scoreLearning  = 70.0
	scoreReviewing = 50.0
	scoreMastered  = 10.0
	scoreSuspended = 0.0
)

// Bonus weights.
const (
	overduePerDay    = 10.0
	overdueBonusCap  = 50.0
	difficultyWeight = 20.0
	confidenceWeight = 15.0
)

// Candidate pairs an item key with its recorded history. Item is nil
// for keys that have never been seen.
type Candidate struct {
	Key  string
	Item *domain.KanaItem
}

// Score computes the practice priority of one item at the given time.
// Higher scores rank earlier. A nil item (no record) scores highest of
// all.
func Score(item *domain.KanaItem, now time.Time) float64 {
	if item == nil {
		return scoreNoRecord
	}

	var score float64
	switch item.Status {
	case domain.StatusNew:
		score = scoreNew
	case domain.StatusLearning:
		score = scoreLearning
	case domain.StatusReviewing:
		score = scoreReviewing
	case domain.StatusMastered:
		score = scoreMastered
	case domain.StatusSuspended:
		score = scoreSuspended
	}

	if item.NextReview != nil {
		overdueDays := now.Sub(*item.NextReview).Hours() / 24
		if overdueDays > 0 {
			score += min(overdueDays*overduePerDay, overdueBonusCap)
		}
	}

	score += item.Difficulty * difficultyWeight
	score += (1 - item.Confidence) * confidenceWeight

	return score
}

// Rank orders candidates by descending score and returns the keys of
// the top limit entries. The sort is stable: candidates with equal
// scores keep their input order. A limit of 0 or less falls back to
// DefaultLimit.
func Rank(candidates []Candidate, now time.Time, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	type scored struct {
		key   string
		score float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{key: c.Key, score: Score(c.Item, now)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	keys := make([]string, len(ranked))
	for i, r := range ranked {
		keys[i] = r.key
	}
	return keys
}
