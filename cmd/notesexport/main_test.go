package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/notesexport/pkg/exports"
	"mercator-hq/notesexport/pkg/telemetry/logging"
)

// resetFlags restores every flag to its default so commands can be executed
// repeatedly within one test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(cmd.Flags())
	reset(cmd.PersistentFlags())
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

// seedExports writes export files directly, bypassing the clock.
func seedExports(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, nodeName := range files {
		body := `{"version":1,"salt":"a","iv":"b","ciphertext":"c","nodeName":"` + nodeName + `"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "notesexport "+Version)
	assert.Contains(t, out, "Go Version:")
}

func TestVersionInfo(t *testing.T) {
	info := versionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.Commit)
	assert.NotEmpty(t, info.GoVersion)
}

func TestExportsNames(t *testing.T) {
	dir := seedExports(t, map[string]string{
		"notes-export-beta-2024-01-01T10-00-00-000Z.json":  "beta",
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json": "alpha",
		"notes-export-alpha-2024-01-02T09-00-00-000Z.json": "alpha",
		"README.txt": "",
	})

	out, err := execute(t, "exports", "names", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\n", out)

	out, err = execute(t, "exports", "names", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"names":["alpha","beta"]}`, out)
}

func TestExportsNames_MissingDirectory(t *testing.T) {
	out, err := execute(t, "exports", "names", "--dir", filepath.Join(t.TempDir(), "nope"), "-f", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"names":[]}`, out)
}

func TestExportsLatest(t *testing.T) {
	dir := seedExports(t, map[string]string{
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json": "alpha",
		"notes-export-alpha-2024-01-03T09-00-00-000Z.json": "alpha-newest",
	})

	out, err := execute(t, "exports", "latest", "--dir", dir, "--name", "alpha")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "alpha-newest", doc["nodeName"])

	_, err = execute(t, "exports", "latest", "--dir", dir, "--name", "missing-name")
	var notFound *exports.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = execute(t, "exports", "latest", "--dir", dir)
	assert.Error(t, err, "--name is required")
}

func TestExportsList(t *testing.T) {
	dir := seedExports(t, map[string]string{
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json": "alpha",
		"notes-export-beta-2024-01-02T09-00-00-000Z.json":  "beta",
	})

	out, err := execute(t, "exports", "list", "--dir", dir, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"FILE,NODE,DAY,TIMESTAMP",
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json,alpha,2024-01-01,2024-01-01T09-00-00-000Z",
		"notes-export-beta-2024-01-02T09-00-00-000Z.json,beta,2024-01-02,2024-01-02T09-00-00-000Z",
	}, "\n")+"\n", out)

	out, err = execute(t, "exports", "list", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"nodeName": "alpha"`)

	_, err = execute(t, "exports", "list", "--dir", dir, "--format", "xml")
	assert.Error(t, err)
}

func TestExportsPrune(t *testing.T) {
	dir := seedExports(t, map[string]string{
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json": "alpha",
		"notes-export-alpha-2024-01-01T10-00-00-000Z.json": "alpha",
		"notes-export-beta-2024-01-01T11-00-00-000Z.json":  "beta",
	})

	out, err := execute(t, "exports", "prune", "--dir", dir, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"scanned":3,"deleted":2,"vanished":0,"failed":0}`, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes-export-beta-2024-01-01T11-00-00-000Z.json", entries[0].Name())
}

func TestExportsPrune_DayAndName(t *testing.T) {
	dir := seedExports(t, map[string]string{
		"notes-export-alpha-2024-01-01T09-00-00-000Z.json": "alpha",
		"notes-export-alpha-2024-01-01T10-00-00-000Z.json": "alpha",
		"notes-export-beta-2024-01-01T11-00-00-000Z.json":  "beta",
	})
	t.Setenv("NOTESEXPORT_RETENTION_GROUP_BY", "day_and_name")

	out, err := execute(t, "exports", "prune", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "SCANNED")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		out, err := execute(t, "config", "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration valid")
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := execute(t, "config", "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("retention:\n  group_by: week\n"), 0o644))

		_, err := execute(t, "config", "validate", "-c", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retention.group_by")
	})
}

func TestConfigShow_MasksToken(t *testing.T) {
	t.Setenv("NOTESEXPORT_AUTH_TOKEN", "super-secret")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, logging.Redacted)
	assert.Contains(t, out, "listen_address:")
	assert.Contains(t, out, "group_by: day")
}

func TestRunDryRun(t *testing.T) {
	out, err := execute(t, "run", "--dry-run", "--listen", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	_, err = execute(t, "run", "--dry-run", "--log-level", "trace")
	assert.Error(t, err)
}
