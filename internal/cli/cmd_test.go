package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/ticktrack/internal/config"
	"github.com/alexanderramin/ticktrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// testApp wires an App whose configuration points at a fresh temp directory,
// so consecutive commands share one SQLite file like separate invocations do.
func testApp(t *testing.T) (*App, *testutil.FakeClock) {
	t.Helper()
	dir := t.TempDir()
	clock := testutil.NewFakeClock(testNow)
	return &App{
		LoadConfig: func(string) (*config.Config, error) {
			cfg := config.Default(dir)
			return &cfg, nil
		},
		Now: clock.Now,
	}, clock
}

// executeCmd runs a fresh root command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	require.NoError(t, app.Close())
	return stripANSI(buf.String()), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "ticktrack")
	assert.Contains(t, output, "start")
}

func TestStartStatusStop(t *testing.T) {
	app, clock := testApp(t)

	out, err := executeCmd(t, app, "start", "write", "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Started write report at 09:00:00")

	clock.Advance(5*time.Minute + 3*time.Second)
	out, err = executeCmd(t, app, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "write report")
	assert.Contains(t, out, "00:05:03")

	out, err = executeCmd(t, app, "status", "--short")
	require.NoError(t, err)
	assert.Equal(t, "write report 00:05:03\n", out)

	out, err = executeCmd(t, app, "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped write report 00:05:03")

	out, err = executeCmd(t, app, "status", "--short")
	require.NoError(t, err)
	assert.Equal(t, "stopped\n", out)
}

func TestStartCmd_SwitchesTask(t *testing.T) {
	app, clock := testApp(t)

	_, err := executeCmd(t, app, "start", "write")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = executeCmd(t, app, "start", "read")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = executeCmd(t, app, "stop")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "00:01:00")
	assert.Contains(t, out, "00:02:00")
	assert.Contains(t, out, "Total 00:03:00")
}

func TestStartCmd_BlankName(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "start", "  ")
	assert.EqualError(t, err, "task name must not be blank")

	_, err = executeCmd(t, app, "start")
	assert.EqualError(t, err, "task name must not be blank")

	out, err := executeCmd(t, app, "entries")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries.")
}

func TestStartCmd_PromptsWhenInteractive(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return true }
	app.PromptTask = func(name *string) error {
		*name = "review"
		return nil
	}

	out, err := executeCmd(t, app, "start")
	require.NoError(t, err)
	assert.Contains(t, out, "Started review")
}

func TestStopCmd_NothingRunning(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "stop")
	require.NoError(t, err)
	assert.Equal(t, "No task running.\n", out)
}

func TestEntriesCmd_Filters(t *testing.T) {
	app, clock := testApp(t)
	for _, task := range []string{"write", "read", "write"} {
		_, err := executeCmd(t, app, "start", task)
		require.NoError(t, err)
		clock.Advance(time.Hour)
	}
	_, err := executeCmd(t, app, "stop")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "entries", "--task", "READ")
	require.NoError(t, err)
	assert.Contains(t, out, "read")
	assert.NotContains(t, out, "write")

	out, err = executeCmd(t, app, "entries", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "write")
	assert.NotContains(t, out, "read")

	_, err = executeCmd(t, app, "entries", "--limit", "-1")
	assert.ErrorContains(t, err, "--limit")

	clock.Advance(72 * time.Hour)
	out, err = executeCmd(t, app, "entries", "--days", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries.")
}

func TestSummaryCmd_Chart(t *testing.T) {
	app, clock := testApp(t)
	_, err := executeCmd(t, app, "start", "write")
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = executeCmd(t, app, "stop")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "summary", "--chart")
	require.NoError(t, err)
	assert.Contains(t, out, "CHART")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "30m (100%)")
}

func TestExportCmd(t *testing.T) {
	app, clock := testApp(t)
	_, err := executeCmd(t, app, "start", "write")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = executeCmd(t, app, "stop")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "export")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "write", decoded[0]["task"])
	assert.Equal(t, "2026-03-02T09:00:00.000Z", decoded[0]["startTime"])
	assert.Equal(t, "2026-03-02T09:00:01.000Z", decoded[0]["endTime"])
}

func TestGlobalFlags_FileStore(t *testing.T) {
	app, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "slots.json")

	_, err := executeCmd(t, app, "--store", "file", "--file", path, "start", "write")
	require.NoError(t, err)
	assert.FileExists(t, path)

	out, err := executeCmd(t, app, "--store", "file", "--file", path, "status", "--short")
	require.NoError(t, err)
	assert.Equal(t, "write 00:00:00\n", out)

	out, err = executeCmd(t, app, "status", "--short")
	require.NoError(t, err)
	assert.Equal(t, "stopped\n", out, "the default sqlite store is untouched")
}

func TestGlobalFlags_Invalid(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "--store", "etcd", "status")
	assert.ErrorContains(t, err, "unknown store backend")

	_, err = executeCmd(t, app, "--log-level", "loud", "status")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestTUICmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "tui")
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestValidateTaskName(t *testing.T) {
	assert.Error(t, validateTaskName(" \t"))
	assert.NoError(t, validateTaskName("write"))
}
