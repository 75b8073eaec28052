package domain

import "time"

// MilestoneType identifies which cumulative statistic a milestone
// records a threshold crossing of.
type MilestoneType string

// Possible milestone types.
const (
	MilestoneKanaMastered MilestoneType = "kana_mastered"
	MilestoneStreak       MilestoneType = "streak"
	MilestoneTotalReviews MilestoneType = "total_reviews"
	MilestonePerfectWeek  MilestoneType = "perfect_week"
)

// Milestone is a one-time achievement event. Milestones are never
// deleted; Celebrated flips false to true exactly once, when the
// celebration UI has shown it.
type Milestone struct {
	Type       MilestoneType `json:"type"`
	Value      int           `json:"value"`
	AchievedAt time.Time     `json:"achievedAt"`
	Celebrated bool          `json:"celebrated"`
}

// SessionStats counts study sessions and day streaks.
type SessionStats struct {
	Total           int        `json:"total"`
	CurrentStreak   int        `json:"currentStreak"`
	LongestStreak   int        `json:"longestStreak"`
	LastSessionDate *time.Time `json:"lastSessionDate,omitempty"`
}

// TimeSpentStats tracks study time in seconds.
type TimeSpentStats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	ThisWeek int `json:"thisWeek"`
	Average  int `json:"average"` // Per recorded session
}

// AchievementStats holds cumulative achievement counters and the
// milestone history.
type AchievementStats struct {
	TotalKanaMastered int         `json:"totalKanaMastered"`
	TotalReviews      int         `json:"totalReviews"`
	PerfectDays       int         `json:"perfectDays"` // Days the daily goal was met
	Milestones        []Milestone `json:"milestones"`
}

// LearningStats is the statistics section of the progress aggregate.
type LearningStats struct {
	Sessions     SessionStats     `json:"sessions"`
	TimeSpent    TimeSpentStats   `json:"timeSpent"`
	Achievements AchievementStats `json:"achievements"`
}

// NewLearningStats returns zeroed statistics with a non-nil milestone
// slice so the persisted shape is stable.
func NewLearningStats() LearningStats {
	return LearningStats{
		Achievements: AchievementStats{Milestones: []Milestone{}},
	}
}

// StreakInfo is a derived view of the session streak for the reminder
// and dashboard surfaces. The streak breaks when more than 24 hours
// pass without a session.
type StreakInfo struct {
	Current         int
	Longest         int
	HoursUntilBreak float64
	WillBreakToday  bool
}

// clone deep-copies the statistics, including the milestone slice.
func (s LearningStats) clone() LearningStats {
	if s.Sessions.LastSessionDate != nil {
		t := *s.Sessions.LastSessionDate
		s.Sessions.LastSessionDate = &t
	}
	milestones := make([]Milestone, len(s.Achievements.Milestones))
	copy(milestones, s.Achievements.Milestones)
	s.Achievements.Milestones = milestones
	return s
}
