package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yt-insights/ytviews/internal/models"
)

var sample = []models.VideoRecord{
	{ID: "vidA", Title: "Café & Crème <live>", Count: 500, Thumbnail: "https://i.ytimg.com/vi/vidA/hqdefault.jpg", Date: "2023-05-10T17:53:59Z"},
	{ID: "vidB", Title: "日本語のタイトル", Count: 0, Thumbnail: "https://i.ytimg.com/vi/vidB/hqdefault.jpg", Date: "2023-05-03T09:00:00Z"},
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Veritasium_youtube_data.json", FileName("Veritasium"))
	assert.Equal(t, filepath.Join("out", "UC123_youtube_data.json"), Path("out", "UC123"))
}

func TestFileName_SeparatorsStayInOneFile(t *testing.T) {
	assert.Equal(t, "AC_DC_youtube_data.json", FileName("AC/DC"))
	assert.Equal(t, ".._x_youtube_data.json", FileName("../x"))
	assert.Equal(t, "a_b_youtube_data.json", FileName(`a\b`))
	assert.Equal(t, filepath.Join("out", ".._x_youtube_data.json"), Path("out", "../x"))
}

func TestSave_TermWithSeparatorsWritesInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "cwd")
	require.NoError(t, os.Mkdir(dir, 0o755))

	for _, term := range []string{"AC/DC", "../escape"} {
		require.NoError(t, Save(Path(dir, term), sample))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		assert.False(t, e.IsDir(), e.Name())
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"AC_DC_youtube_data.json", ".._escape_youtube_data.json"}, names)

	rootEntries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, rootEntries, 1)
}

func TestSave_DoesNotCreateDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", FileName("x"))

	assert.Error(t, Save(path, sample))
	_, err := os.Stat(filepath.Dir(path))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName("rt"))

	require.NoError(t, Save(path, sample))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName("fmt"))
	require.NoError(t, Save(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "[\n    {\n        \"id\": \"vidA\",\n"))
	assert.Contains(t, text, `"title": "Café & Crème <live>"`)
	assert.Contains(t, text, "日本語のタイトル")
	assert.NotContains(t, text, `\u`)
}

func TestSave_RecordsHaveExactlyFiveFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName("fields"))
	require.NoError(t, Save(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, len(sample))
	for _, obj := range raw {
		assert.Len(t, obj, 5)
		for _, key := range []string{"id", "title", "count", "thumbnail", "date"} {
			assert.Contains(t, obj, key)
		}
		count, ok := obj["count"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, count, float64(0))
		assert.Equal(t, float64(int64(count)), count)
	}
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("over"))

	require.NoError(t, Save(path, sample))
	require.NoError(t, Save(path, sample[:1]))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample[:1], got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_EmptyListIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName("empty"))
	require.NoError(t, Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
