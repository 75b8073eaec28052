package srs

// Result is the scheduler's output for one review.
type Result struct {
	Interval   int     // Days until the next review
	EaseFactor float64 // Updated ease factor, floored at MinEaseFactor
}

// Scheduler computes the next review schedule for an item. Quality is
// expected in 0..5; validation belongs to the caller (see
// ValidQuality), the scheduler itself does not clamp.
type Scheduler interface {
	CalculateNextReview(interval int, easeFactor float64, quality int) Result
}

// defaultScheduler is the standard implementation of Scheduler.
type defaultScheduler struct {
	params *Params
}

// NewDefaultScheduler creates a Scheduler with default SM-2 parameters.
func NewDefaultScheduler() Scheduler {
	return &defaultScheduler{params: NewDefaultParams()}
}

// NewSchedulerWithParams creates a Scheduler with custom parameters.
func NewSchedulerWithParams(params *Params) Scheduler {
	return &defaultScheduler{params: params}
}

// CalculateNextReview implements Scheduler. Pure and deterministic:
// the same inputs always produce the same Result.
//
// The ease factor update is evaluated against the original ease
// factor, and so is the interval formula; neither sees the other's
// output.
func (s *defaultScheduler) CalculateNextReview(interval int, easeFactor float64, quality int) Result {
	return Result{
		Interval:   nextInterval(interval, easeFactor, quality, s.params),
		EaseFactor: nextEaseFactor(easeFactor, quality, s.params),
	}
}

// ValidQuality reports whether a quality score is in the accepted
// 0..5 range.
func ValidQuality(quality int) bool {
	return quality >= 0 && quality <= 5
}
