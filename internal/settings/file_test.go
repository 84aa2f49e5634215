package settings_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/resend-mcp/internal/settings"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	f := settings.New(path)

	_, ok, err := f.Get("resend_api_key")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set("resend_api_key", json.RawMessage(`"re_123"`)))
	require.NoError(t, f.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := settings.New(path)
	v, ok, err := reopened.Get("resend_api_key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"re_123"`, string(v))

	deleted, err := reopened.Delete("resend_api_key")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = reopened.Delete("resend_api_key")
	require.NoError(t, err)
	assert.False(t, deleted)
	require.NoError(t, reopened.Save())

	_, ok, err = settings.New(path).Get("resend_api_key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileKeepsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))

	f := settings.New(path)
	require.NoError(t, f.Set("resend_api_key", json.RawMessage(`"re_abc"`)))
	require.NoError(t, f.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","resend_api_key":"re_abc"}`, string(raw))
}

func TestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	f := settings.New(path)

	_, _, err := f.Get("resend_api_key")
	require.Error(t, err)

	err = f.Set("resend_api_key", json.RawMessage(`"x"`))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, ok, err := f.Get("resend_api_key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o644))

	f := settings.New(path)
	assert.Equal(t, path, f.Path())

	for _, key := range []string{`"re_one"`, `"re_two"`} {
		require.NoError(t, f.Set("resend_api_key", json.RawMessage(key)))
		require.NoError(t, f.Save())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark","resend_api_key":"re_two"}`, string(raw))
}

func TestFileSaveFailureRemovesTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))

	f := settings.New(path)
	require.NoError(t, f.Set("resend_api_key", json.RawMessage(`"re_abc"`)))

	// A directory at the target path makes the final rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o600))

	require.Error(t, f.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file should be cleaned up")
	assert.True(t, entries[0].IsDir())
}
