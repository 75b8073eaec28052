package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current aggregate schema version. It is stored
// in every aggregate and compared on load to decide migration.
const SchemaVersion = "2.0.0"

// Display preference values.
const (
	DisplayModeCard = "card"
	DisplayModeList = "list"

	IndicatorColor = "color"
	IndicatorBadge = "badge"
	IndicatorBoth  = "both"
)

// DefaultDailyGoal is the default number of kana to practice per day.
const DefaultDailyGoal = 10

// Preferences are the learner-tunable settings.
type Preferences struct {
	DailyGoal         int    `json:"dailyGoal"`
	ReminderEnabled   bool   `json:"reminderEnabled"`
	DisplayMode       string `json:"displayMode"`       // "card" or "list"
	ProgressIndicator string `json:"progressIndicator"` // "color", "badge" or "both"
}

// UserProfile holds identity-adjacent settings and activity timestamps.
type UserProfile struct {
	DisplayName  string      `json:"displayName,omitempty"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	LastActiveAt time.Time   `json:"lastActiveAt"`
}

// Metadata carries bookkeeping fields that are not learning state.
type Metadata struct {
	AppVersion string     `json:"appVersion"`
	LastSync   *time.Time `json:"lastSync,omitempty"` // Last mutation marker
	DeviceID   string     `json:"deviceId"`
	Checksum   string     `json:"checksum,omitempty"`
}

// Progress is the aggregate root: the complete persisted learning
// record for one local user and device. It is treated as an immutable
// value per snapshot; mutations go through Clone and WithItem so
// previously published snapshots are never changed.
type Progress struct {
	Version      string              `json:"version"`
	UserID       string              `json:"userId"`
	Profile      UserProfile         `json:"profile"`
	KanaProgress map[string]KanaItem `json:"kanaProgress"`
	Statistics   LearningStats       `json:"statistics"`
	Metadata     Metadata            `json:"metadata"`
}

// NewDefaultProgress creates the first-run aggregate with generated
// user and device identifiers.
func NewDefaultProgress(now time.Time) *Progress {
	return &Progress{
		Version: SchemaVersion,
		UserID:  fmt.Sprintf("user_%s", uuid.NewString()),
		Profile: UserProfile{
			Preferences: Preferences{
				DailyGoal:         DefaultDailyGoal,
				ReminderEnabled:   false,
				DisplayMode:       DisplayModeCard,
				ProgressIndicator: IndicatorBoth,
			},
			CreatedAt:    now,
			LastActiveAt: now,
		},
		KanaProgress: make(map[string]KanaItem),
		Statistics:   NewLearningStats(),
		Metadata: Metadata{
			AppVersion: SchemaVersion,
			DeviceID:   fmt.Sprintf("device_%s", uuid.NewString()),
		},
	}
}

// Validate checks the mandatory identity fields and every item. Used
// on decoded and imported payloads.
func (p *Progress) Validate() error {
	if p.Version == "" {
		return ErrEmptyVersion
	}
	if p.UserID == "" {
		return ErrEmptyUserID
	}
	if p.KanaProgress == nil {
		return ErrNilKanaProgress
	}
	for key, item := range p.KanaProgress {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", key, err)
		}
	}
	return nil
}

// Item returns the recorded item for a key, if any.
func (p *Progress) Item(key string) (KanaItem, bool) {
	item, ok := p.KanaProgress[key]
	return item, ok
}

// StatusOf returns the lifecycle status of a key; keys with no record
// are new.
func (p *Progress) StatusOf(key string) Status {
	if item, ok := p.KanaProgress[key]; ok {
		return item.Status
	}
	return StatusNew
}

// Clone deep-copies the aggregate. The item map and milestone slice
// get fresh backing storage.
func (p *Progress) Clone() *Progress {
	next := *p
	next.KanaProgress = make(map[string]KanaItem, len(p.KanaProgress))
	for key, item := range p.KanaProgress {
		next.KanaProgress[key] = item.clone()
	}
	next.Statistics = p.Statistics.clone()
	if p.Metadata.LastSync != nil {
		t := *p.Metadata.LastSync
		next.Metadata.LastSync = &t
	}
	return &next
}

// WithItem returns a clone of the aggregate with one item entry
// replaced and the mutation markers refreshed from now.
func (p *Progress) WithItem(key string, item KanaItem, now time.Time) *Progress {
	next := p.Clone()
	next.KanaProgress[key] = item
	next.Touch(now)
	return next
}

// WithoutItems returns a clone with the given item entries removed
// entirely. Keys with no entry are ignored. Top-level fields, the
// activity markers included, are left exactly as they were.
func (p *Progress) WithoutItems(keys []string) *Progress {
	next := p.Clone()
	for _, key := range keys {
		delete(next.KanaProgress, key)
	}
	return next
}

// Touch refreshes the last-activity markers. Called by the mutations
// that represent study activity; resets and preference edits skip it.
func (p *Progress) Touch(now time.Time) {
	p.Profile.LastActiveAt = now
	sync := now
	p.Metadata.LastSync = &sync
}
