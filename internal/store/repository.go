package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/kanastudy/kanaprog/internal/domain"
)

// Slot keys in the underlying KV store.
const (
	// PrimarySlot holds the current-version aggregate blob.
	PrimarySlot = "kana-learning-progress-v2"

	// BackupSlot holds the previous successfully written blob.
	BackupSlot = "kana-learning-backup"
)

// LoadStatus distinguishes the three outcomes of Load.
type LoadStatus int

const (
	// LoadAbsent means no stored data was found (or none was readable).
	// Not an error: the caller creates a default aggregate.
	LoadAbsent LoadStatus = iota

	// LoadOK means the primary slot decoded cleanly.
	LoadOK

	// LoadRecovered means the primary slot was corrupt and the
	// aggregate was restored from the backup slot.
	LoadRecovered
)

// LoadResult is the outcome of Load. Progress is nil when Status is
// LoadAbsent.
type LoadResult struct {
	Status   LoadStatus
	Progress *domain.Progress
}

// importEnvelope is the shape checked before an import is accepted.
// Only the mandatory identity fields are validated here; the full
// aggregate is validated after decoding.
type importEnvelope struct {
	Version      string                     `json:"version"      validate:"required"`
	UserID       string                     `json:"userId"       validate:"required"`
	KanaProgress map[string]json.RawMessage `json:"kanaProgress" validate:"required"`
}

// Repository persists the progress aggregate in two KV slots with
// backup-before-write and corruption recovery. It owns the durable
// encoding; callers hand it decoded aggregates only.
type Repository struct {
	kv       KV
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRepository creates a repository over the given KV capability.
// A nil logger falls back to slog.Default().
func NewRepository(kv KV, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		kv:       kv,
		validate: validator.New(),
		logger:   logger,
	}
}

// Save durably stores the aggregate. The current primary payload is
// copied to the backup slot first, so previously durable data survives
// a partial failure. If the write cannot be verified, the primary slot
// is rolled back to the backup and ErrWriteVerification is returned.
// Saves are never retried automatically; the caller may retry.
func (r *Repository) Save(p *domain.Progress) error {
	hadBackup := false
	if current, ok, err := r.kv.Get(PrimarySlot); err == nil && ok {
		if err := r.kv.Set(BackupSlot, current); err != nil {
			return fmt.Errorf("failed to write backup slot: %w", err)
		}
		hadBackup = true
	} else if err != nil {
		return fmt.Errorf("failed to read primary slot: %w", err)
	}

	payload, err := encode(p)
	if err != nil {
		return err
	}

	if err := r.kv.Set(PrimarySlot, payload); err != nil {
		r.rollback(hadBackup)
		return fmt.Errorf("%w: %v", ErrWriteVerification, err)
	}

	// Read the slot back to verify the payload is what we wrote.
	stored, ok, err := r.kv.Get(PrimarySlot)
	if err != nil || !ok || stored != payload {
		r.rollback(hadBackup)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWriteVerification, err)
		}
		return ErrWriteVerification
	}

	return nil
}

// rollback restores the primary slot from the backup, or clears it
// when no backup existed before this save.
func (r *Repository) rollback(hadBackup bool) {
	if hadBackup {
		if backup, ok, err := r.kv.Get(BackupSlot); err == nil && ok {
			if err := r.kv.Set(PrimarySlot, backup); err != nil {
				r.logger.Error("rollback failed to restore primary slot", "error", err)
			}
			return
		}
	}
	if err := r.kv.Delete(PrimarySlot); err != nil {
		r.logger.Error("rollback failed to clear primary slot", "error", err)
	}
}

// Load reads the stored aggregate.
//
// A missing primary slot reports LoadAbsent with a nil error. A corrupt
// primary falls back to the backup slot: when the backup decodes, the
// primary is rewritten to match and the result is LoadRecovered. When
// both slots are corrupt the result is LoadAbsent together with the
// decode error, so callers can degrade to a default aggregate while
// still surfacing the corruption.
func (r *Repository) Load() (LoadResult, error) {
	payload, ok, err := r.kv.Get(PrimarySlot)
	if err != nil {
		return LoadResult{Status: LoadAbsent}, fmt.Errorf("failed to read primary slot: %w", err)
	}
	if !ok {
		return LoadResult{Status: LoadAbsent}, nil
	}

	p, decodeFailure := decode(payload)
	if decodeFailure == nil {
		return LoadResult{Status: LoadOK, Progress: p}, nil
	}
	r.logger.Warn("primary slot is corrupt, trying backup", "error", decodeFailure)

	backup, ok, err := r.kv.Get(BackupSlot)
	if err != nil || !ok {
		return LoadResult{Status: LoadAbsent}, decodeFailure
	}
	p, err = decode(backup)
	if err != nil {
		return LoadResult{Status: LoadAbsent}, decodeFailure
	}

	// Heal the primary slot so the next load is clean.
	if err := r.kv.Set(PrimarySlot, backup); err != nil {
		r.logger.Error("failed to rewrite primary slot after recovery", "error", err)
	}
	r.logger.Info("recovered progress from backup slot")

	return LoadResult{Status: LoadRecovered, Progress: p}, nil
}

// Export serializes the stored aggregate as pretty-printed JSON,
// uncompressed, for portability and human inspection. Returns
// ErrNothingToExport when no aggregate is stored.
func (r *Repository) Export() (string, error) {
	result, err := r.Load()
	if err != nil {
		return "", err
	}
	if result.Status == LoadAbsent {
		return "", ErrNothingToExport
	}

	out, err := json.MarshalIndent(result.Progress, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal progress for export: %w", err)
	}
	return string(out), nil
}

// Import parses an exported JSON payload, validates the mandatory
// identity fields, and saves it through the normal backup-protected
// path. A validation failure returns ErrInvalidImport and leaves
// storage untouched.
func (r *Repository) Import(data string) error {
	var envelope importEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := r.validate.Struct(envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	var p domain.Progress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	return r.Save(&p)
}

// Migrate is the seam for future schema upgrades. The current behavior
// is an identity pass-through: the payload is decoded as the current
// schema and returned unchanged. This is a documented gap, not a
// forward-compatibility guarantee; real version-specific logic belongs
// here when the schema changes.
func (r *Repository) Migrate(oldVersion string, raw []byte) (*domain.Progress, error) {
	r.logger.Info("migrating progress data", "from_version", oldVersion, "to_version", domain.SchemaVersion)

	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, decodeErr(err)
	}
	return &p, nil
}
