package fixture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviling/pulsecheck/internal/errors"
	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/parser"
)

func TestStore_Path(t *testing.T) {
	store := NewStore("/tmp/fixtures")

	assert.Equal(t, filepath.Join("/tmp/fixtures", "sleep.json"), store.Path("sleep"))
	assert.Equal(t, filepath.Join("/tmp/fixtures", "heart_rate.json"), store.Path("HeartRate"))
	assert.Equal(t, filepath.Join("/tmp/fixtures", "daily_activity.json"), store.Path("daily-activity"))
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "fixtures"))

	value, err := parser.ParseString(`{"sleep": [{"score": 84, "total": 25620}]}`)
	require.NoError(t, err)

	require.NoError(t, store.Save("sleep", value))
	assert.True(t, store.Exists("sleep"))

	loaded, err := store.Load("sleep")
	require.NoError(t, err)
	assert.Equal(t, value, loaded)
}

func TestStore_SavePrettyPrints(t *testing.T) {
	store := NewStore(t.TempDir())

	value, err := parser.ParseString(`{"a": 1, "b": {"c": true}}`)
	require.NoError(t, err)
	require.NoError(t, store.Save("sample", value))

	data, err := os.ReadFile(store.Path("sample"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "\n  ", "fixture should be indented")
	assert.True(t, strings.HasSuffix(content, "\n"), "fixture should end with a newline")

	// Still a single valid JSON document.
	var check interface{}
	require.NoError(t, json.Unmarshal(data, &check))
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("sleep")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoFixture)
}

func TestStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.Path("sleep"), []byte("{not json"), 0644))

	// An unparsable fixture means there is no usable baseline.
	_, err := store.Load("sleep")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoFixture)
}

func TestStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "nested", "fixtures")
	store := NewStore(dir)

	require.NoError(t, store.Save("userinfo", models.JSONObject{"age": json.Number("33")}))
	assert.True(t, store.Exists("userinfo"))
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := parser.ParseString(`{"v": 1}`)
	require.NoError(t, err)
	second, err := parser.ParseString(`{"v": 2}`)
	require.NoError(t, err)

	require.NoError(t, store.Save("userinfo", first))
	require.NoError(t, store.Save("userinfo", second))

	loaded, err := store.Load("userinfo")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}
