package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestArchiveRestore_RoundTrip(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "events.jsonl"), `{"type":"buy"}`+"\n")
	writeFile(t, filepath.Join(src, "saves", "slot_1.json"), `{"slot":1}`)
	writeFile(t, filepath.Join(src, "saves", "slot_2.json"), `{"slot":2}`)
	// not a game artifact, must not travel
	writeFile(t, filepath.Join(src, "scratch.txt"), "junk")

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, Archive(src, archive))

	dst := t.TempDir()
	require.NoError(t, Restore(archive, dst))

	b, err := os.ReadFile(filepath.Join(dst, "saves", "slot_1.json"))
	require.NoError(t, err)
	require.Equal(t, `{"slot":1}`, string(b))

	b, err = os.ReadFile(filepath.Join(dst, "events.jsonl"))
	require.NoError(t, err)
	require.Equal(t, `{"type":"buy"}`+"\n", string(b))

	_, err = os.Stat(filepath.Join(dst, "scratch.txt"))
	require.True(t, os.IsNotExist(err))
}

func TestRestore_OverwritesExisting(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "saves", "slot_1.json"), "new")

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, Archive(src, archive))

	dst := t.TempDir()
	writeFile(t, filepath.Join(dst, "saves", "slot_1.json"), "old")
	require.NoError(t, Restore(archive, dst))

	b, err := os.ReadFile(filepath.Join(dst, "saves", "slot_1.json"))
	require.NoError(t, err)
	require.Equal(t, "new", string(b))
}

func TestArchive_MissingSource(t *testing.T) {
	err := Archive(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "a.tar.gz"))
	require.Error(t, err)
}

func TestDefaultArchiveName(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)
	require.Equal(t, "greatmerchant-20250302-103000.tar.gz", DefaultArchiveName(now))
}

func TestSafeRelPath(t *testing.T) {
	_, err := safeRelPath("../escape")
	require.Error(t, err)
	_, err = safeRelPath("/abs")
	require.Error(t, err)
	rel, err := safeRelPath("saves/slot_1.json")
	require.NoError(t, err)
	require.Equal(t, "saves/slot_1.json", rel)
}
