// Package progress implements the progress store: it holds the live
// aggregate, applies actions to single kana through the state machine
// and scheduler, and republishes a fresh immutable snapshot after
// every mutation.
//
// Mutations update the in-memory snapshot optimistically and trigger
// an asynchronous durable save. Each snapshot carries a sequence
// number; a save whose snapshot is older than the newest durable one is
// skipped, so storage converges to the latest snapshot. A failed save
// surfaces through the observable error slot (LastError) and does not
// roll back the in-memory copy. Only the repository rolls its durable
// slots back.
package progress

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kanastudy/kanaprog/internal/domain"
	"github.com/kanastudy/kanaprog/internal/domain/srs"
	"github.com/kanastudy/kanaprog/internal/kana"
	"github.com/kanastudy/kanaprog/internal/recommend"
	"github.com/kanastudy/kanaprog/internal/store"
)

// Common service errors.
var (
	ErrInvalidDisplayMode       = errors.New("display mode must be card or list")
	ErrInvalidProgressIndicator = errors.New("progress indicator must be color, badge or both")
	ErrInvalidDailyGoal         = errors.New("daily goal must be positive")
	ErrNoSuchMilestone          = errors.New("no milestone at that index")
	ErrInvalidDuration          = errors.New("session duration cannot be negative")
)

// PreferencesPatch is a partial preferences update; nil fields keep
// their current value.
type PreferencesPatch struct {
	DailyGoal         *int
	ReminderEnabled   *bool
	DisplayMode       *string
	ProgressIndicator *string
}

// Service is the canonical in-memory holder of the progress aggregate.
type Service struct {
	repo      *store.Repository
	sched     srs.Scheduler
	clock     func() time.Time
	logger    *slog.Logger
	recLimit  int
	dailyGoal int

	mu       sync.Mutex // guards snapshot, saveSeq and lastErr
	snapshot *domain.Progress
	saveSeq  uint64
	lastErr  error

	saveMu       sync.Mutex // serializes saves; guards persistedSeq
	persistedSeq uint64
	saves        sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source. Each operation takes a single
// reading from it, so timestamp fields within one mutation never skew.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithScheduler injects a custom spaced-repetition scheduler.
func WithScheduler(sched srs.Scheduler) Option {
	return func(s *Service) { s.sched = sched }
}

// WithRecommendationLimit overrides the ranked-list length.
func WithRecommendationLimit(limit int) Option {
	return func(s *Service) { s.recLimit = limit }
}

// WithDailyGoal overrides the configured daily goal used for
// perfect-day accounting. The per-aggregate preference, when set,
// still wins.
func WithDailyGoal(goal int) Option {
	return func(s *Service) { s.dailyGoal = goal }
}

// WithLogger injects the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New loads the stored aggregate through the repository, creating and
// persisting a default one on first run. The service is always usable
// after New returns: load failures degrade to a default aggregate with
// the failure recorded in the error slot, mirroring the repository's
// never-crash load policy.
func New(repo *store.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("progress service requires a repository")
	}

	s := &Service{
		repo:      repo,
		sched:     srs.NewDefaultScheduler(),
		clock:     time.Now,
		logger:    slog.Default(),
		recLimit:  recommend.DefaultLimit,
		dailyGoal: domain.DefaultDailyGoal,
	}
	for _, opt := range opts {
		opt(s)
	}

	result, err := repo.Load()
	switch {
	case err != nil:
		// Both slots unreadable. Start fresh but keep the corruption
		// visible in the error slot.
		s.logger.Error("failed to load progress, starting fresh", "error", err)
		s.lastErr = err
		s.snapshot = domain.NewDefaultProgress(s.clock())
		if saveErr := repo.Save(s.snapshot); saveErr != nil {
			s.logger.Error("failed to persist fresh progress", "error", saveErr)
		}
	case result.Status == store.LoadAbsent:
		s.snapshot = domain.NewDefaultProgress(s.clock())
		if saveErr := repo.Save(s.snapshot); saveErr != nil {
			s.logger.Error("failed to persist initial progress", "error", saveErr)
			s.lastErr = saveErr
		}
	case result.Status == store.LoadRecovered:
		s.logger.Warn("progress was recovered from backup")
		s.snapshot = result.Progress
	default:
		s.snapshot = result.Progress
	}

	return s, nil
}

// Apply runs one action against one kana. The item is created with
// defaults on first access. The new snapshot is visible immediately;
// durability follows asynchronously.
func (s *Service) Apply(key string, action domain.Action) error {
	now := s.clock()

	s.mu.Lock()
	cur := s.snapshot

	item, ok := cur.Item(key)
	if !ok {
		item = domain.NewKanaItem(now)
	}

	interacted := false
	becameMastered := false

	switch act := action.(type) {
	case domain.Expose:
		item = item.WithExposure(now)

	case domain.Interact:
		if !srs.ValidQuality(act.Quality) {
			s.mu.Unlock()
			return fmt.Errorf("%w: got %d", domain.ErrInvalidQuality, act.Quality)
		}
		wasMastered := item.Status == domain.StatusMastered
		result := s.sched.CalculateNextReview(item.Interval, item.EaseFactor, act.Quality)
		item = item.WithReview(result.Interval, result.EaseFactor, act.Quality, now)
		interacted = true
		becameMastered = !wasMastered && item.Status == domain.StatusMastered

	case domain.Suspend:
		item = item.Suspend()

	case domain.Resume:
		item = item.Resume()

	case domain.Reset:
		item = domain.NewKanaItem(now)

	default:
		// Unreachable from outside the domain package; guards against
		// a new action kind being added without a branch here.
		s.mu.Unlock()
		return fmt.Errorf("%w: %T", domain.ErrUnknownAction, action)
	}

	next := cur.WithItem(key, item, now)
	if interacted {
		next.Statistics.Achievements.TotalReviews++
		if becameMastered {
			next.Statistics.Achievements.TotalKanaMastered++
		}
		updateMilestones(&next.Statistics, now)
	}

	seq := s.commitLocked(next)
	s.mu.Unlock()

	s.persistAsync(next, seq)
	return nil
}

// UpdatePreferences applies a partial preferences update. Preference
// changes are configuration, not study activity, so the activity
// markers are left alone.
func (s *Service) UpdatePreferences(patch PreferencesPatch) error {
	if patch.DailyGoal != nil && *patch.DailyGoal <= 0 {
		return ErrInvalidDailyGoal
	}
	if patch.DisplayMode != nil &&
		*patch.DisplayMode != domain.DisplayModeCard && *patch.DisplayMode != domain.DisplayModeList {
		return ErrInvalidDisplayMode
	}
	if patch.ProgressIndicator != nil {
		switch *patch.ProgressIndicator {
		case domain.IndicatorColor, domain.IndicatorBadge, domain.IndicatorBoth:
		default:
			return ErrInvalidProgressIndicator
		}
	}

	s.mu.Lock()
	next := s.snapshot.Clone()
	prefs := &next.Profile.Preferences
	if patch.DailyGoal != nil {
		prefs.DailyGoal = *patch.DailyGoal
	}
	if patch.ReminderEnabled != nil {
		prefs.ReminderEnabled = *patch.ReminderEnabled
	}
	if patch.DisplayMode != nil {
		prefs.DisplayMode = *patch.DisplayMode
	}
	if patch.ProgressIndicator != nil {
		prefs.ProgressIndicator = *patch.ProgressIndicator
	}
	seq := s.commitLocked(next)
	s.mu.Unlock()

	s.persistAsync(next, seq)
	return nil
}

// ResetProgress deletes the given item entries entirely. With no keys
// it deletes every entry. Top-level fields (profile, statistics,
// identity, activity markers) are untouched.
func (s *Service) ResetProgress(keys ...string) error {
	s.mu.Lock()
	if len(keys) == 0 {
		keys = make([]string, 0, len(s.snapshot.KanaProgress))
		for key := range s.snapshot.KanaProgress {
			keys = append(keys, key)
		}
	}
	next := s.snapshot.WithoutItems(keys)
	seq := s.commitLocked(next)
	s.mu.Unlock()

	s.persistAsync(next, seq)
	return nil
}

// RecordSession records a completed study session: streak arithmetic
// over day boundaries, time-spent accounting, and perfect-day credit
// when the daily goal was met.
func (s *Service) RecordSession(durationSeconds, reviewsCompleted int) error {
	if durationSeconds < 0 {
		return ErrInvalidDuration
	}

	now := s.clock()

	s.mu.Lock()
	next := s.snapshot.Clone()
	stats := &next.Statistics

	last := stats.Sessions.LastSessionDate
	switch {
	case last == nil:
		stats.Sessions.CurrentStreak = 1
	case sameDay(*last, now):
		// Additional sessions on the same day extend nothing.
	case daysBetween(*last, now) == 1:
		stats.Sessions.CurrentStreak++
	default:
		stats.Sessions.CurrentStreak = 1
	}
	stats.Sessions.LongestStreak = max(stats.Sessions.LongestStreak, stats.Sessions.CurrentStreak)
	stats.Sessions.Total++

	if last != nil && sameDay(*last, now) {
		stats.TimeSpent.Today += durationSeconds
	} else {
		stats.TimeSpent.Today = durationSeconds
	}
	if last != nil && sameWeek(*last, now) {
		stats.TimeSpent.ThisWeek += durationSeconds
	} else {
		stats.TimeSpent.ThisWeek = durationSeconds
	}
	stats.TimeSpent.Total += durationSeconds
	stats.TimeSpent.Average = stats.TimeSpent.Total / stats.Sessions.Total

	// Perfect-day credit is granted on the first session of a calendar
	// day, with reviewsCompleted holding that day's review total.
	goal := s.dailyGoal
	if prefGoal := next.Profile.Preferences.DailyGoal; prefGoal > 0 {
		goal = prefGoal
	}
	if reviewsCompleted >= goal && (last == nil || !sameDay(*last, now)) {
		stats.Achievements.PerfectDays++
	}

	sessionTime := now
	stats.Sessions.LastSessionDate = &sessionTime

	updateMilestones(stats, now)

	next.Touch(now)
	seq := s.commitLocked(next)
	s.mu.Unlock()

	s.persistAsync(next, seq)
	return nil
}

// Snapshot returns the current aggregate snapshot. Treat it as
// read-only: it is replaced wholesale by the next mutation and shared
// with other readers.
func (s *Service) Snapshot() *domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// KanaStatus returns the lifecycle status of one kana; keys without a
// record read as new.
func (s *Service) KanaStatus(key string) domain.Status {
	return s.Snapshot().StatusOf(key)
}

// Stats returns a copy of the current statistics.
func (s *Service) Stats() domain.LearningStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Statistics
}

// StreakInfo derives the streak view: the streak breaks when more
// than 24 hours pass without a session.
func (s *Service) StreakInfo() domain.StreakInfo {
	stats := s.Stats()
	now := s.clock()

	info := domain.StreakInfo{
		Current:         stats.Sessions.CurrentStreak,
		Longest:         stats.Sessions.LongestStreak,
		HoursUntilBreak: 24,
	}
	if last := stats.Sessions.LastSessionDate; last != nil {
		hours := now.Sub(*last).Hours()
		info.HoursUntilBreak = max(0, 24-hours)
		info.WillBreakToday = hours > 24
	}
	return info
}

// Recommendations flattens the given rows through the gojuon table and
// returns the highest-priority kana keys, most urgent first. Unknown
// row names are skipped.
func (s *Service) Recommendations(rowKeys []string) []string {
	now := s.clock()
	snapshot := s.Snapshot()

	var candidates []recommend.Candidate
	for _, row := range rowKeys {
		members, ok := kana.Row(row)
		if !ok {
			continue
		}
		for _, key := range members {
			var item *domain.KanaItem
			if recorded, ok := snapshot.Item(key); ok {
				item = &recorded
			}
			candidates = append(candidates, recommend.Candidate{Key: key, Item: item})
		}
	}

	return recommend.Rank(candidates, now, s.recLimit)
}

// LastError returns the most recent repository failure, or nil. The
// slot is sticky: it is only overwritten by a later failure, so the UI
// can warn that the latest change may not be saved.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Export waits for in-flight saves and serializes the stored aggregate
// as portable pretty-printed JSON.
func (s *Service) Export() (string, error) {
	s.Flush()
	return s.repo.Export()
}

// Import validates and stores an exported payload, then adopts it as
// the live snapshot.
func (s *Service) Import(data string) error {
	s.Flush()
	if err := s.repo.Import(data); err != nil {
		return err
	}

	result, err := s.repo.Load()
	if err != nil || result.Progress == nil {
		return fmt.Errorf("failed to reload imported progress: %w", err)
	}

	s.mu.Lock()
	s.snapshot = result.Progress
	s.mu.Unlock()
	return nil
}

// Flush blocks until all submitted saves have completed.
func (s *Service) Flush() {
	s.saves.Wait()
}

// commitLocked swaps in the new snapshot and stamps it with the next
// save sequence number. The caller must hold s.mu; the returned
// sequence is what keeps out-of-order save goroutines from writing an
// old snapshot over a newer one.
func (s *Service) commitLocked(next *domain.Progress) uint64 {
	s.snapshot = next
	s.saveSeq++
	return s.saveSeq
}

// persistAsync saves a snapshot in the background.
func (s *Service) persistAsync(p *domain.Progress, seq uint64) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		s.persist(p, seq)
	}()
}

// persist writes one snapshot through the repository. Save goroutines
// may reach here in any order, so a snapshot older than the newest one
// already handled is dropped: writing it would move storage backwards.
// After Flush the durable state is therefore the latest snapshot.
func (s *Service) persist(p *domain.Progress, seq uint64) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if seq <= s.persistedSeq {
		return
	}
	s.persistedSeq = seq

	if err := s.repo.Save(p); err != nil {
		s.logger.Error("failed to save progress", "error", err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
	}
}

// sameDay reports whether two instants fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysBetween is the number of calendar-day boundaries between a and b.
// The dates are re-anchored to UTC midnights before subtracting, so a
// 23-hour DST transition day still counts as one full day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// sameWeek reports whether two instants fall in the same ISO week.
func sameWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
