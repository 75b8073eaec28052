package domain

import "time"

// Status is the lifecycle state of a learnable kana.
type Status string

// Possible item statuses.
const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
	StatusSuspended Status = "suspended"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReviewing, StatusMastered, StatusSuspended:
		return true
	default:
		return false
	}
}

// Default values for freshly created items.
const (
	DefaultDifficulty = 0.5
	DefaultEaseFactor = 2.5
)

// Thresholds of the confidence/status rule applied on interactions.
const (
	// PassQuality is the lowest quality score that counts as a correct
	// recall.
	PassQuality = 3

	// masteryConfidence and masteryInterval gate promotion to mastered:
	// both must be met after a correct recall.
	masteryConfidence = 0.8
	masteryInterval   = 30

	// resumeConfidence decides whether a resumed item returns to
	// reviewing (above) or learning (at or below).
	resumeConfidence = 0.5

	confidenceGain = 0.1
	confidenceLoss = 0.2
)

// KanaItem tracks the learning history of a single kana. An item with
// no recorded history does not exist in the aggregate map; first access
// creates it via NewKanaItem.
//
// JSON field names match the persisted aggregate schema (version 2.x).
type KanaItem struct {
	Exposures    int     `json:"exposures"`    // Times shown
	Interactions int     `json:"interactions"` // Times actively answered
	Confidence   float64 `json:"confidence"`   // Recall confidence in [0, 1]
	Retention    float64 `json:"retention"`    // Reserved, not computed by the scheduler

	FirstSeen    time.Time  `json:"firstSeen"`
	LastSeen     time.Time  `json:"lastSeen"`
	LastMastered *time.Time `json:"lastMastered,omitempty"`

	Status     Status  `json:"status"`
	Difficulty float64 `json:"difficulty"` // Reserved for future tuning, default 0.5

	Interval   int        `json:"interval"`   // Days until the next review
	EaseFactor float64    `json:"easeFactor"` // SM-2 ease factor, floored at 1.3
	NextReview *time.Time `json:"nextReview,omitempty"`
}

// NewKanaItem creates an item with creation defaults. Both timestamps
// are set from the same reading of the clock.
func NewKanaItem(now time.Time) KanaItem {
	return KanaItem{
		FirstSeen:  now,
		LastSeen:   now,
		Status:     StatusNew,
		Difficulty: DefaultDifficulty,
		Interval:   0,
		EaseFactor: DefaultEaseFactor,
	}
}

// Validate checks field ranges. It is applied to decoded data, not to
// values produced by the transition methods, which maintain these
// bounds by construction.
func (i KanaItem) Validate() error {
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return ErrInvalidConfidence
	}
	if i.Difficulty < 0 || i.Difficulty > 1 {
		return ErrInvalidDifficulty
	}
	if i.Interval < 0 {
		return ErrInvalidInterval
	}
	if i.EaseFactor < 1.3 {
		return ErrInvalidEaseFactor
	}
	return nil
}

// WithExposure records that the kana was shown without being answered.
// Status is unchanged.
func (i KanaItem) WithExposure(now time.Time) KanaItem {
	i.Exposures++
	i.LastSeen = now
	return i
}

// WithReview records an answered interaction. interval and easeFactor
// are the scheduler's output for the given quality; the item's
// confidence and status are derived from quality and the new interval:
//
//   - quality >= 3 raises confidence by 0.1 (capped at 1) and promotes
//     to mastered once confidence reaches 0.8 with an interval over 30
//     days, otherwise to reviewing;
//   - quality < 3 lowers confidence by 0.2 (floored at 0) and demotes
//     to learning, including from mastered.
func (i KanaItem) WithReview(interval int, easeFactor float64, quality int, now time.Time) KanaItem {
	i.Exposures++
	i.Interactions++
	i.LastSeen = now

	i.Interval = interval
	i.EaseFactor = easeFactor
	next := now.AddDate(0, 0, interval)
	i.NextReview = &next

	if quality >= PassQuality {
		i.Confidence = min(1, i.Confidence+confidenceGain)
		if i.Confidence >= masteryConfidence && i.Interval > masteryInterval {
			i.Status = StatusMastered
			mastered := now
			i.LastMastered = &mastered
		} else {
			i.Status = StatusReviewing
		}
	} else {
		i.Confidence = max(0, i.Confidence-confidenceLoss)
		i.Status = StatusLearning
	}

	return i
}

// Suspend freezes the item. History and counters are preserved;
// suspended items exit only via Resume.
func (i KanaItem) Suspend() KanaItem {
	i.Status = StatusSuspended
	return i
}

// Resume returns a suspended item to active study: reviewing when
// confidence is above 0.5, learning otherwise. Items in any other
// status are returned unchanged.
func (i KanaItem) Resume() KanaItem {
	if i.Status != StatusSuspended {
		return i
	}
	if i.Confidence > resumeConfidence {
		i.Status = StatusReviewing
	} else {
		i.Status = StatusLearning
	}
	return i
}

// clone deep-copies the item, giving pointer fields fresh allocations
// so snapshots never share mutable storage.
func (i KanaItem) clone() KanaItem {
	if i.LastMastered != nil {
		t := *i.LastMastered
		i.LastMastered = &t
	}
	if i.NextReview != nil {
		t := *i.NextReview
		i.NextReview = &t
	}
	return i
}
