package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/didyoueat/didyoueat/internal/api"
	"github.com/didyoueat/didyoueat/internal/app"
	apperrors "github.com/didyoueat/didyoueat/internal/errors"
	"github.com/didyoueat/didyoueat/internal/monitor"
	"github.com/didyoueat/didyoueat/internal/state"
)

type harness struct {
	dir   string
	store string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"DIDYOUEAT_STORE", "DIDYOUEAT_DATA_DIR", "DIDYOUEAT_OPEN_SMS", "DIDYOUEAT_PASSPHRASE"} {
		t.Setenv(k, "")
	}
	return &harness{dir: t.TempDir(), store: "file"}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{
		"--data-dir", h.dir,
		"--store", h.store,
		"--open-sms=false",
		"--log-level", "error",
		"--env-file", filepath.Join(h.dir, "none.env"),
	}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (h *harness) setup(t *testing.T) {
	t.Helper()
	h.mustRun(t, "setup", "--name", "Mary", "--phone", "+15550000000")
}

func TestStatusBeforeSetup(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "status")
	assert.Contains(t, out, "not set up")
}

func TestCommandsRequireSetup(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{{"checkin"}, {"alert"}, {"action", "yes"}, {"watch"}} {
		_, err := h.run(t, args...)
		assert.ErrorIs(t, err, apperrors.ErrSetupIncomplete, strings.Join(args, " "))
	}
}

func TestSetupValidation(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "setup", "--name", "Mary", "--phone", "5550000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhone)

	_, err = h.run(t, "setup", "--name", "Mary", "--phone", "+15550000000", "--lunch", "noon")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTime)

	out := h.mustRun(t, "settings", "show")
	assert.Contains(t, out, "Setup not complete")
}

func TestSetupCheckinStatusHistory(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "setup", "--name", "Mary", "--phone", "+15550000000", "--dinner", "18:30")
	assert.Contains(t, out, "Setup complete")
	assert.Contains(t, out, "18:30")

	out = h.mustRun(t, "checkin", "--category", "lunch")
	assert.Contains(t, out, "Lunch confirmed")
	assert.Regexp(t, `Time until alert: (24h 0m|23h 59m)`, out)

	out = h.mustRun(t, "checkin", "not_yet", "-c", "dinner")
	assert.Contains(t, out, "Dinner not yet")

	out = h.mustRun(t, "status", "-o", "json")
	var st api.StatusDTO
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.True(t, st.SetupComplete)
	assert.Equal(t, "normal", st.State)
	assert.Equal(t, "confirmed", st.AnchorSource)

	out = h.mustRun(t, "history", "-o", "yaml")
	var events []api.EventDTO
	require.NoError(t, yaml.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "Dinner", events[0].Category)
	assert.Equal(t, "NOT_YET", events[0].Outcome)

	out = h.mustRun(t, "history")
	assert.Contains(t, out, "Not yet")
	assert.Contains(t, out, "Lunch")

	out = h.mustRun(t, "history", "-n", "1", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Len(t, events, 1)
}

func TestUnknownOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "status", "-o", "xml")
	assert.Error(t, err)
}

func TestActionAppendsEachTime(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	h.mustRun(t, "action", "yes")
	h.mustRun(t, "action", "yes")
	_, err := h.run(t, "action", "maybe")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAction)

	out := h.mustRun(t, "history", "-o", "json")
	var events []api.EventDTO
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Len(t, events, 2)
	assert.Equal(t, "Extra", events[0].Category)
}

func TestAlertPrintsSMSLink(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	out := h.mustRun(t, "alert")
	assert.Contains(t, out, "sms:+15550000000;?body=No%20meal%20confirmation")
	assert.Contains(t, out, "Alert handed off for Mary")

	out = h.mustRun(t, "status", "-o", "json")
	var st api.StatusDTO
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.NotNil(t, st.LastAlertAt)
}

func TestSimulateInactivityBreaches(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.mustRun(t, "checkin")

	out := h.mustRun(t, "simulate-inactivity")
	assert.Contains(t, out, "ALERT TRIGGERED")

	out = h.mustRun(t, "status")
	assert.Contains(t, out, "ALERT TRIGGERED")
	assert.Contains(t, out, "didyoueat alert")
}

func TestSettingsSet(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	out := h.mustRun(t, "settings", "set", "--lunch", "13:15")
	assert.Contains(t, out, "13:15")
	assert.Contains(t, out, "Mary")

	_, err := h.run(t, "settings", "set", "--phone", "0044")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhone)
	assert.Contains(t, h.mustRun(t, "settings", "show"), "+15550000000")
}

func TestResetRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	_, err := h.run(t, "reset")
	assert.Error(t, err)

	h.mustRun(t, "reset", "--yes")
	assert.Contains(t, h.mustRun(t, "status"), "not set up")
}

func TestSQLiteStoreFlag(t *testing.T) {
	h := newHarness(t)
	h.store = "sqlite"
	h.setup(t)
	h.mustRun(t, "checkin")

	out := h.mustRun(t, "history", "-o", "json")
	var events []api.EventDTO
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Len(t, events, 1)
	assert.FileExists(t, filepath.Join(h.dir, "state.db"))
}

func TestSQLiteStoreSealedWithPassphrase(t *testing.T) {
	h := newHarness(t)
	h.store = "sqlite"
	h.mustRun(t, "setup", "--name", "Mary", "--phone", "+15550000000", "--passphrase", "s3cret")

	raw, err := os.ReadFile(filepath.Join(h.dir, "state.db"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "+15550000000")

	assert.Contains(t, h.mustRun(t, "settings", "show", "--passphrase", "s3cret"), "+15550000000")
	assert.Contains(t, h.mustRun(t, "status"), "not set up", "without the passphrase the blob cannot be read")
}

func TestCheckinReachesRunningController(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	ctx := context.Background()

	store, err := state.Open(state.Options{Backend: state.BackendFile, Dir: h.dir})
	require.NoError(t, err)
	defer store.Close()
	running := app.New(ctx, app.Options{Store: store})
	require.Equal(t, monitor.StateNormal, running.Evaluate(ctx).Result.State)

	h.mustRun(t, "simulate-inactivity")
	snap := running.Evaluate(ctx)
	require.True(t, snap.Result.Breached())
	require.True(t, snap.Raised)

	h.mustRun(t, "checkin", "yes")
	snap = running.Evaluate(ctx)
	assert.Equal(t, monitor.StateNormal, snap.Result.State)
	assert.False(t, snap.OverlayShown)

	_, err = running.Dispatch(ctx)
	require.NoError(t, err)

	out := h.mustRun(t, "history", "-o", "json")
	var events []api.EventDTO
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 2, "the running controller must not overwrite the check-in")
	assert.Equal(t, "YES", events[0].Outcome)
}
