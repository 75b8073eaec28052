package progress

import (
	"time"

	"github.com/kanastudy/kanaprog/internal/domain"
)

// Milestone thresholds. 46 is the full monograph table.
var (
	masteredThresholds = []int{5, 10, 25, 46}
	streakThresholds   = []int{3, 7, 14, 30}
	reviewThresholds   = []int{50, 100, 500, 1000}
)

// updateMilestones appends a milestone for every threshold the current
// counters have crossed that is not already recorded. Milestones are
// created uncelebrated; they are never removed, so a threshold crossed
// once is recorded exactly once even if the counter later re-crosses
// it (a mastered kana demoted and re-mastered, say).
func updateMilestones(stats *domain.LearningStats, now time.Time) {
	check := func(kind domain.MilestoneType, counter int, thresholds []int) {
		for _, threshold := range thresholds {
			if counter >= threshold && !hasMilestone(stats, kind, threshold) {
				stats.Achievements.Milestones = append(stats.Achievements.Milestones, domain.Milestone{
					Type:       kind,
					Value:      threshold,
					AchievedAt: now,
				})
			}
		}
	}

	check(domain.MilestoneKanaMastered, stats.Achievements.TotalKanaMastered, masteredThresholds)
	check(domain.MilestoneStreak, stats.Sessions.CurrentStreak, streakThresholds)
	check(domain.MilestoneTotalReviews, stats.Achievements.TotalReviews, reviewThresholds)

	// A perfect week is every seventh perfect day.
	if days := stats.Achievements.PerfectDays; days > 0 && days%7 == 0 &&
		!hasMilestone(stats, domain.MilestonePerfectWeek, days) {
		stats.Achievements.Milestones = append(stats.Achievements.Milestones, domain.Milestone{
			Type:       domain.MilestonePerfectWeek,
			Value:      days,
			AchievedAt: now,
		})
	}
}

func hasMilestone(stats *domain.LearningStats, kind domain.MilestoneType, value int) bool {
	for _, m := range stats.Achievements.Milestones {
		if m.Type == kind && m.Value == value {
			return true
		}
	}
	return false
}

// UncelebratedMilestones returns the milestones the celebration UI has
// not shown yet, in achievement order.
func (s *Service) UncelebratedMilestones() []domain.Milestone {
	stats := s.Stats()
	var out []domain.Milestone
	for _, m := range stats.Achievements.Milestones {
		if !m.Celebrated {
			out = append(out, m)
		}
	}
	return out
}

// CelebrateMilestone marks the milestone at the given index (into the
// full milestone sequence) as celebrated. The flag flips false to true
// exactly once; celebrating an already-celebrated milestone is a
// no-op.
func (s *Service) CelebrateMilestone(index int) error {
	now := s.clock()

	s.mu.Lock()
	milestones := s.snapshot.Statistics.Achievements.Milestones
	if index < 0 || index >= len(milestones) {
		s.mu.Unlock()
		return ErrNoSuchMilestone
	}
	if milestones[index].Celebrated {
		s.mu.Unlock()
		return nil
	}

	next := s.snapshot.Clone()
	next.Statistics.Achievements.Milestones[index].Celebrated = true
	next.Touch(now)
	seq := s.commitLocked(next)
	s.mu.Unlock()

	s.persistAsync(next, seq)
	return nil
}
