package recommend

import (
	"testing"
	"time"

	"github.com/kanastudy/kanaprog/internal/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func itemWith(status domain.Status, confidence, difficulty float64) *domain.KanaItem {
	item := domain.NewKanaItem(now)
	item.Status = status
	item.Confidence = confidence
	item.Difficulty = difficulty
	return &item
}

func TestScoreNoRecord(t *testing.T) {
	t.Parallel()

	if got := Score(nil, now); got != 100 {
		t.Errorf("expected 100 for no record, got %v", got)
	}
}

func TestScoreOverdueBonus(t *testing.T) {
	t.Parallel()

	item := itemWith(domain.StatusReviewing, 1, 0)
	due := now.AddDate(0, 0, -3)
	item.NextReview = &due

	// Base 50 + 3 days overdue * 10, no difficulty/confidence bonus.
	if got := Score(item, now); got != 80 {
		t.Errorf("expected 80, got %v", got)
	}
}

func TestScoreOverdueBonusIsCapped(t *testing.T) {
	t.Parallel()

	item := itemWith(domain.StatusReviewing, 1, 0)
	due := now.AddDate(0, 0, -365)
	item.NextReview = &due

	if got := Score(item, now); got != 100 {
		t.Errorf("expected overdue bonus capped at 50 (score 100), got %v", got)
	}
}

func TestScoreFutureReviewNoBonus(t *testing.T) {
	t.Parallel()

	item := itemWith(domain.StatusReviewing, 1, 0)
	due := now.AddDate(0, 0, 5)
	item.NextReview = &due

	if got := Score(item, now); got != 50 {
		t.Errorf("a review due in the future must add nothing, got %v", got)
	}
}

func TestRankOrdering(t *testing.T) {
	t.Parallel()

	// A: never seen; B: learning and a day overdue; C: mastered.
	b := itemWith(domain.StatusLearning, 0, 0)
	yesterday := now.AddDate(0, 0, -1)
	b.NextReview = &yesterday
	c := itemWith(domain.StatusMastered, 1, 0)

	got := Rank([]Candidate{
		{Key: "a", Item: nil},
		{Key: "b", Item: b},
		{Key: "c", Item: c},
	}, now, DefaultLimit)

	want := []string{"a", "b", "c"}
	for i, key := range want {
		if got[i] != key {
			t.Fatalf("position %d: expected %q, got %v", i, key, got)
		}
	}
}

func TestRankStableTieBreak(t *testing.T) {
	t.Parallel()

	// Equal scores keep flatten order.
	candidates := []Candidate{
		{Key: "first", Item: nil},
		{Key: "second", Item: nil},
		{Key: "third", Item: nil},
	}

	got := Rank(candidates, now, DefaultLimit)
	want := []string{"first", "second", "third"}
	for i, key := range want {
		if got[i] != key {
			t.Errorf("tie-break broke input order: %v", got)
		}
	}
}

func TestRankLimit(t *testing.T) {
	t.Parallel()

	candidates := make([]Candidate, 15)
	for i := range candidates {
		candidates[i] = Candidate{Key: string(rune('a' + i))}
	}

	if got := Rank(candidates, now, 0); len(got) != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, len(got))
	}
	if got := Rank(candidates, now, 3); len(got) != 3 {
		t.Errorf("expected 3 results, got %d", len(got))
	}
	if got := Rank(candidates[:2], now, 10); len(got) != 2 {
		t.Errorf("limit beyond candidate count should return all, got %d", len(got))
	}
}

func TestScoreSuspendedRanksLast(t *testing.T) {
	t.Parallel()

	suspended := itemWith(domain.StatusSuspended, 1, 0)
	mastered := itemWith(domain.StatusMastered, 1, 0)

	if Score(suspended, now) >= Score(mastered, now) {
		t.Error("suspended items must rank below mastered ones")
	}
}
