package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/didyoueat/didyoueat/internal/checkin"
	"github.com/didyoueat/didyoueat/internal/crypto"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/logging"
)

func TestMain(m *testing.M) {
	restore := logging.SetForTest(zap.NewNop())
	code := m.Run()
	restore()
	os.Exit(code)
}

func validSettings() Settings {
	s := DefaultSettings()
	s.ContactName = "Mary (Daughter)"
	s.ContactPhone = "+15550000000"
	return s
}

func sampleState() State {
	ts := int64(1234)
	s := Default()
	s.Settings = validSettings()
	s.Settings.IsSetupComplete = true
	s.Logs = checkin.Log{
		{ID: "b", Timestamp: 2000, Category: checkin.Lunch, Outcome: checkin.Deferred},
		{ID: "a", Timestamp: 1000, Category: checkin.Breakfast, Outcome: checkin.Confirmed},
	}
	s.LastSmsSentAt = &ts
	return s
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"valid", func(s *Settings) {}, nil},
		{"missing name", func(s *Settings) { s.ContactName = " " }, apperrors.ErrMissingContact},
		{"missing phone", func(s *Settings) { s.ContactPhone = "" }, apperrors.ErrMissingContact},
		{"no plus prefix", func(s *Settings) { s.ContactPhone = "15550000000" }, apperrors.ErrInvalidPhone},
		{"bad lunch time", func(s *Settings) { s.LunchTime = "25:00" }, apperrors.ErrInvalidTime},
		{"bad dinner time", func(s *Settings) { s.DinnerTime = "7pm" }, apperrors.ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("12:30")
	require.NoError(t, err)
	assert.Equal(t, "12h30m0s", d.String())

	_, err = ParseClock("noon")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTime)
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := sampleState()
	c := orig.Clone()
	c.Logs[0].ID = "changed"
	*c.LastSmsSentAt = 99

	assert.Equal(t, "b", orig.Logs[0].ID)
	assert.Equal(t, int64(1234), *orig.LastSmsSentAt)
}

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "state.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	sealedDB, err := NewSQLiteStore(filepath.Join(dir, "sealed.db"), "correct horse")
	require.NoError(t, err)
	t.Cleanup(func() { sealedDB.Close() })

	return map[string]Store{
		"file":          NewFileStore(filepath.Join(dir, "plain", "state.json"), ""),
		"file-sealed":   NewFileStore(filepath.Join(dir, "sealed", "state.json"), "correct horse"),
		"sqlite":        sqlite,
		"sqlite-sealed": sealedDB,
	}
}

func TestStoreLoadMissingReturnsDefaults(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			got := store.Load(context.Background())
			assert.Equal(t, Default(), got)
		})
	}
}

func TestStoreSaveLoadReset(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleState()
			require.NoError(t, store.Save(ctx, want))
			assert.Equal(t, want, store.Load(ctx))

			want.Logs = want.Logs[:1]
			want.LastSmsSentAt = nil
			require.NoError(t, store.Save(ctx, want))
			assert.Equal(t, want, store.Load(ctx))

			require.NoError(t, store.Reset(ctx))
			assert.Equal(t, Default(), store.Load(ctx))
			require.NoError(t, store.Reset(ctx), "reset of empty store is not an error")
		})
	}
}

func TestStoreReadReportsFailures(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := NewFileStore(filepath.Join(dir, "missing.json"), "").Read(ctx)
	require.NoError(t, err, "a missing blob is not a failure")
	assert.Equal(t, Default(), st)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0600))
	st, err = NewFileStore(corrupt, "").Read(ctx)
	assert.Error(t, err)
	assert.Equal(t, Default(), st)

	sealed := filepath.Join(dir, "sealed.json")
	require.NoError(t, NewFileStore(sealed, "right").Save(ctx, sampleState()))
	_, err = NewFileStore(sealed, "").Read(ctx)
	assert.ErrorIs(t, err, errNoPassphrase)
	_, err = NewFileStore(sealed, "wrong").Read(ctx)
	assert.ErrorIs(t, err, crypto.ErrOpenFailed)
}

func TestSQLiteStoreSealsWithPassphrase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := NewSQLiteStore(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleState()))

	var raw string
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, stateKey).Scan(&raw))
	assert.NotContains(t, raw, "+15550000000")
	assert.True(t, crypto.IsSealed([]byte(raw)))
	assert.Equal(t, sampleState(), store.Load(ctx))
	require.NoError(t, store.Close())

	wrong, err := NewSQLiteStore(path, "wrong")
	require.NoError(t, err)
	defer wrong.Close()
	assert.Equal(t, Default(), wrong.Load(ctx))
}

func TestFileStoreCorruptBlobFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	got := NewFileStore(path, "").Load(context.Background())
	assert.Equal(t, Default(), got)
}

func TestFileStoreUnknownCategoryFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	blob := `{"settings":{},"logs":[{"id":"x","timestamp":1,"mealType":"Snack","response":"YES"}],"lastSmsSentAt":null}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))

	assert.Equal(t, Default(), NewFileStore(path, "").Load(context.Background()))
}

func TestFileStoreReadsOriginalBlobShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	blob := `{
	  "settings": {"isSetupComplete": true, "breakfastTime": "07:30", "lunchTime": "12:30",
	               "dinnerTime": "19:00", "contactName": "Mary", "contactPhone": "+15550000000"},
	  "logs": [{"id": "k3j9x0abc", "timestamp": 1700000000000, "mealType": "Breakfast", "response": "YES"}],
	  "lastSmsSentAt": null
	}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0600))

	got := NewFileStore(path, "").Load(context.Background())
	assert.True(t, got.Settings.IsSetupComplete)
	assert.Equal(t, "07:30", got.Settings.BreakfastTime)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, checkin.Confirmed, got.Logs[0].Outcome)
	assert.Nil(t, got.LastSmsSentAt)
}

func TestFileStoreNormalizesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"settings":{"contactName":"A"}}`), 0600))

	got := NewFileStore(path, "").Load(context.Background())
	assert.Equal(t, "A", got.Settings.ContactName)
	assert.Equal(t, "08:00", got.Settings.BreakfastTime)
	assert.NotNil(t, got.Logs)
}

func TestFileStoreSealedWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, NewFileStore(path, "right").Save(ctx, sampleState()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "+15550000000")

	assert.Equal(t, Default(), NewFileStore(path, "wrong").Load(ctx))
	assert.Equal(t, Default(), NewFileStore(path, "").Load(ctx))
}

func TestFileStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	require.NoError(t, NewFileStore(path, "").Save(context.Background(), sampleState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(Options{Backend: BackendSQLite, Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: "redis", Dir: dir})
	assert.ErrorIs(t, err, apperrors.ErrUnknownStore)
}
