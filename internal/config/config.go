package config

// Config holds all application configuration, organized into logical
// sections.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Logging  LoggingConfig  `mapstructure:"logging"  validate:"required"`
	Learning LearningConfig `mapstructure:"learning" validate:"required"`
}

// StorageConfig selects and parameterizes the key-value backend that
// holds the progress slots.
type StorageConfig struct {
	// Backend is one of "file", "sqlite" or "memory". Memory is
	// ephemeral and mainly useful for trying things out.
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite memory"`

	// Path is the storage location: a directory for the file backend,
	// a database file for the sqlite backend. Ignored by memory.
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// LearningConfig tunes the study experience.
type LearningConfig struct {
	// DailyGoal is the number of kana to practice per day, used for
	// perfect-day accounting.
	DailyGoal int `mapstructure:"daily_goal" validate:"required,gt=0"`

	// RecommendationLimit caps the length of the ranked practice list.
	RecommendationLimit int `mapstructure:"recommendation_limit" validate:"required,gt=0,lte=50"`
}
