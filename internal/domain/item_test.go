package domain

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewKanaItemDefaults(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)

	if item.Status != StatusNew {
		t.Errorf("expected status new, got %s", item.Status)
	}
	if item.Exposures != 0 || item.Interactions != 0 {
		t.Error("expected zero counters")
	}
	if item.Difficulty != DefaultDifficulty {
		t.Errorf("expected difficulty %v, got %v", DefaultDifficulty, item.Difficulty)
	}
	if item.Interval != 0 || item.EaseFactor != DefaultEaseFactor {
		t.Errorf("expected interval 0 / ease %v, got %d / %v",
			DefaultEaseFactor, item.Interval, item.EaseFactor)
	}
	if !item.FirstSeen.Equal(testNow) || !item.LastSeen.Equal(testNow) {
		t.Error("expected both timestamps set from the same clock reading")
	}
	if err := item.Validate(); err != nil {
		t.Errorf("fresh item should validate, got %v", err)
	}
}

func TestWithExposure(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)
	later := testNow.Add(time.Hour)

	exposed := item.WithExposure(later)

	if exposed.Exposures != 1 {
		t.Errorf("expected 1 exposure, got %d", exposed.Exposures)
	}
	if exposed.Interactions != 0 {
		t.Error("exposure must not count as an interaction")
	}
	if exposed.Status != StatusNew {
		t.Error("exposure must not change status")
	}
	if !exposed.LastSeen.Equal(later) {
		t.Error("exposure must refresh lastSeen")
	}
	if item.Exposures != 0 {
		t.Error("receiver was mutated")
	}
}

func TestWithReviewCorrectRecall(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)
	reviewed := item.WithReview(1, 2.5, 4, testNow)

	if reviewed.Exposures != 1 || reviewed.Interactions != 1 {
		t.Errorf("expected counters 1/1, got %d/%d", reviewed.Exposures, reviewed.Interactions)
	}
	if reviewed.Confidence != 0.1 {
		t.Errorf("expected confidence 0.1, got %v", reviewed.Confidence)
	}
	if reviewed.Status != StatusReviewing {
		t.Errorf("expected reviewing, got %s", reviewed.Status)
	}
	if reviewed.NextReview == nil {
		t.Fatal("expected nextReview to be set")
	}
	if want := testNow.AddDate(0, 0, 1); !reviewed.NextReview.Equal(want) {
		t.Errorf("expected nextReview %v, got %v", want, reviewed.NextReview)
	}
}

func TestWithReviewPoorRecallDemotes(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)
	item.Status = StatusMastered
	item.Confidence = 0.9

	reviewed := item.WithReview(1, 1.3, 1, testNow)

	if reviewed.Status != StatusLearning {
		t.Errorf("poor recall must demote to learning, got %s", reviewed.Status)
	}
	if got := reviewed.Confidence; got < 0.69 || got > 0.71 {
		t.Errorf("expected confidence near 0.7, got %v", got)
	}
}

func TestMasteryGating(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		confidence float64
		interval   int
		expected   Status
	}{
		{name: "high confidence short interval stays reviewing", confidence: 0.9, interval: 10, expected: StatusReviewing},
		{name: "low confidence long interval stays reviewing", confidence: 0.3, interval: 45, expected: StatusReviewing},
		{name: "interval of exactly 30 is not enough", confidence: 0.9, interval: 30, expected: StatusReviewing},
		{name: "both thresholds met promotes", confidence: 0.75, interval: 45, expected: StatusMastered},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item := NewKanaItem(testNow)
			item.Confidence = tc.confidence
			item.Status = StatusReviewing

			// Quality 4 adds 0.1 confidence before the gate is checked.
			reviewed := item.WithReview(tc.interval, 2.5, 4, testNow)

			if reviewed.Status != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, reviewed.Status)
			}
			if tc.expected == StatusMastered && reviewed.LastMastered == nil {
				t.Error("mastered item must record lastMastered")
			}
		})
	}
}

func TestConfidenceClamping(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)

	// Long run of perfect recalls: confidence must never exceed 1.
	for i := 0; i < 30; i++ {
		item = item.WithReview(item.Interval+1, item.EaseFactor, 5, testNow)
		if item.Confidence > 1 {
			t.Fatalf("confidence exceeded 1: %v", item.Confidence)
		}
	}

	// Long run of blackouts: confidence must never drop below 0.
	for i := 0; i < 30; i++ {
		item = item.WithReview(1, 1.3, 0, testNow)
		if item.Confidence < 0 {
			t.Fatalf("confidence dropped below 0: %v", item.Confidence)
		}
	}
}

func TestSuspendAndResume(t *testing.T) {
	t.Parallel()

	item := NewKanaItem(testNow)
	item.Confidence = 0.7
	item.Exposures = 12

	suspended := item.Suspend()
	if suspended.Status != StatusSuspended {
		t.Fatalf("expected suspended, got %s", suspended.Status)
	}
	if suspended.Exposures != 12 {
		t.Error("suspension must preserve counters")
	}

	resumed := suspended.Resume()
	if resumed.Status != StatusReviewing {
		t.Errorf("confidence 0.7 should resume to reviewing, got %s", resumed.Status)
	}

	suspended.Confidence = 0.5
	if got := suspended.Resume().Status; got != StatusLearning {
		t.Errorf("confidence at 0.5 should resume to learning, got %s", got)
	}

	// Resume on a non-suspended item is a no-op.
	active := NewKanaItem(testNow)
	if got := active.Resume().Status; got != StatusNew {
		t.Errorf("resume on active item must not change status, got %s", got)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*KanaItem)
		wantErr error
	}{
		{"unknown status", func(i *KanaItem) { i.Status = "archived" }, ErrInvalidStatus},
		{"confidence above 1", func(i *KanaItem) { i.Confidence = 1.5 }, ErrInvalidConfidence},
		{"negative interval", func(i *KanaItem) { i.Interval = -1 }, ErrInvalidInterval},
		{"ease below floor", func(i *KanaItem) { i.EaseFactor = 1.0 }, ErrInvalidEaseFactor},
		{"difficulty above 1", func(i *KanaItem) { i.Difficulty = 2 }, ErrInvalidDifficulty},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item := NewKanaItem(testNow)
			tc.mutate(&item)
			if err := item.Validate(); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
