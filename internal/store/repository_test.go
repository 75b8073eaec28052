package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanastudy/kanaprog/internal/domain"
)

// flakyKV wraps MemoryKV with failure injection for the slot protocol
// tests.
type flakyKV struct {
	*MemoryKV
	failSetKey string // Set on this key returns an error
	corruptKey string // The next Set on this key silently stores garbage
}

func (f *flakyKV) Set(key, value string) error {
	if key == f.failSetKey {
		return errors.New("injected write failure")
	}
	if key == f.corruptKey {
		// One-shot: the rollback write that follows must succeed.
		f.corruptKey = ""
		return f.MemoryKV.Set(key, value+"~corrupted~")
	}
	return f.MemoryKV.Set(key, value)
}

var repoNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seededProgress(t *testing.T) *domain.Progress {
	t.Helper()
	p := domain.NewDefaultProgress(repoNow)
	p.KanaProgress["ka"] = domain.NewKanaItem(repoNow).WithExposure(repoNow)
	return p
}

func TestLoadAbsentOnFreshStore(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewMemoryKV(), nil)
	result, err := repo.Load()

	require.NoError(t, err)
	assert.Equal(t, LoadAbsent, result.Status)
	assert.Nil(t, result.Progress)
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewMemoryKV(), nil)
	p := seededProgress(t)

	require.NoError(t, repo.Save(p))

	result, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadOK, result.Status)
	assert.Equal(t, p.UserID, result.Progress.UserID)
	assert.Contains(t, result.Progress.KanaProgress, "ka")
}

func TestSaveCopiesPrimaryToBackup(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	repo := NewRepository(kv, nil)

	first := seededProgress(t)
	require.NoError(t, repo.Save(first))
	primaryAfterFirst, ok, _ := kv.Get(PrimarySlot)
	require.True(t, ok)

	second := first.Clone()
	second.KanaProgress["ki"] = domain.NewKanaItem(repoNow)
	require.NoError(t, repo.Save(second))

	backup, ok, _ := kv.Get(BackupSlot)
	require.True(t, ok)
	assert.Equal(t, primaryAfterFirst, backup, "backup must hold the previous primary payload")
}

func TestSaveRollbackOnVerificationFailure(t *testing.T) {
	t.Parallel()

	kv := &flakyKV{MemoryKV: NewMemoryKV()}
	repo := NewRepository(kv, nil)

	before := seededProgress(t)
	require.NoError(t, repo.Save(before))

	// The next write silently corrupts the primary slot, so the
	// read-back verification must fail and roll back.
	kv.corruptKey = PrimarySlot
	after := before.Clone()
	after.KanaProgress["ki"] = domain.NewKanaItem(repoNow)

	err := repo.Save(after)
	require.Error(t, err)
	assert.True(t, IsWriteVerificationError(err))

	// The pre-save aggregate must still load unchanged.
	kv.corruptKey = ""
	result, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadOK, result.Status)
	assert.NotContains(t, result.Progress.KanaProgress, "ki")
	assert.Contains(t, result.Progress.KanaProgress, "ka")
}

func TestSaveSetFailureRollsBack(t *testing.T) {
	t.Parallel()

	kv := &flakyKV{MemoryKV: NewMemoryKV()}
	repo := NewRepository(kv, nil)

	before := seededProgress(t)
	require.NoError(t, repo.Save(before))

	kv.failSetKey = PrimarySlot
	err := repo.Save(before.Clone())
	require.Error(t, err)
	assert.True(t, IsWriteVerificationError(err))

	kv.failSetKey = ""
	result, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadOK, result.Status)
}

func TestFirstSaveFailureClearsPrimary(t *testing.T) {
	t.Parallel()

	kv := &flakyKV{MemoryKV: NewMemoryKV(), corruptKey: PrimarySlot}
	repo := NewRepository(kv, nil)

	err := repo.Save(seededProgress(t))
	require.Error(t, err)

	// No backup existed, so rollback clears the slot entirely.
	kv.corruptKey = ""
	result, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadAbsent, result.Status)
}

func TestLoadRecoversFromBackup(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	repo := NewRepository(kv, nil)

	p := seededProgress(t)
	require.NoError(t, repo.Save(p))
	require.NoError(t, repo.Save(p)) // second save populates the backup slot

	// Corrupt the primary slot behind the repository's back.
	require.NoError(t, kv.Set(PrimarySlot, "garbage"))

	result, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadRecovered, result.Status)
	assert.Equal(t, p.UserID, result.Progress.UserID)

	// Recovery must rewrite the primary slot to match the backup.
	primary, ok, _ := kv.Get(PrimarySlot)
	require.True(t, ok)
	backup, _, _ := kv.Get(BackupSlot)
	assert.Equal(t, backup, primary)

	// A subsequent load is clean.
	again, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, LoadOK, again.Status)
}

func TestLoadBothSlotsCorrupt(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	require.NoError(t, kv.Set(PrimarySlot, "garbage"))
	require.NoError(t, kv.Set(BackupSlot, "also garbage"))

	repo := NewRepository(kv, nil)
	result, err := repo.Load()

	// Degrades to absent but surfaces the corruption.
	assert.Equal(t, LoadAbsent, result.Status)
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewMemoryKV(), nil)
	p := seededProgress(t)
	p.Statistics.Achievements.TotalReviews = 42
	require.NoError(t, repo.Save(p))

	exported, err := repo.Export()
	require.NoError(t, err)
	assert.Contains(t, exported, p.UserID, "export must be human-readable JSON")

	// Import into a fresh repository and compare.
	other := NewRepository(NewMemoryKV(), nil)
	require.NoError(t, other.Import(exported))

	result, err := other.Load()
	require.NoError(t, err)
	require.Equal(t, LoadOK, result.Status)
	assert.Equal(t, p.UserID, result.Progress.UserID)
	assert.Equal(t, 42, result.Progress.Statistics.Achievements.TotalReviews)
	assert.Contains(t, result.Progress.KanaProgress, "ka")

	// Idempotence: exporting the import yields the same document.
	reExported, err := other.Export()
	require.NoError(t, err)
	assert.JSONEq(t, exported, reExported)
}

func TestExportWithoutData(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewMemoryKV(), nil)
	_, err := repo.Export()
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data string
	}{
		{name: "not json", data: "definitely not json"},
		{name: "missing version", data: `{"userId":"user_1","kanaProgress":{}}`},
		{name: "missing user id", data: `{"version":"2.0.0","kanaProgress":{}}`},
		{name: "missing item map", data: `{"version":"2.0.0","userId":"user_1"}`},
		{
			name: "item with invalid status",
			data: `{"version":"2.0.0","userId":"user_1","kanaProgress":{"ka":{"status":"bogus","difficulty":0.5,"easeFactor":2.5,"firstSeen":"2025-06-01T12:00:00Z","lastSeen":"2025-06-01T12:00:00Z"}}}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			kv := NewMemoryKV()
			repo := NewRepository(kv, nil)

			err := repo.Import(tc.data)
			assert.ErrorIs(t, err, ErrInvalidImport)

			// Storage must be untouched.
			_, ok, _ := kv.Get(PrimarySlot)
			assert.False(t, ok, "rejected import must not mutate storage")
		})
	}
}

func TestMigrateIdentityPassThrough(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewMemoryKV(), nil)
	raw := []byte(`{"version":"1.0.0","userId":"user_old","kanaProgress":{}}`)

	p, err := repo.Migrate("1.0.0", raw)
	require.NoError(t, err)
	assert.Equal(t, "user_old", p.UserID)
	assert.Equal(t, "1.0.0", p.Version, "migrate is an identity pass-through")
}
