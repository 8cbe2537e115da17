// internal/uploads/uploads_test.go
package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndPath(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("cat.PNG", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	require.Equal(t, "cat.PNG", name)

	path, err := store.Path(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))
}

func TestSaveRejectsDisallowedExtensions(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"evil.exe", "page.html", "script.js", "noext", "double.png.sh"} {
		_, err := store.Save(name, strings.NewReader("x"))
		require.ErrorIs(t, err, ErrDisallowedExtension, "filename %q", name)
	}
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	name, err := store.Save("../../escape.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "escape.png", name)

	// The file must land inside the uploads dir, not above it.
	_, statErr := os.Stat(filepath.Join(dir, "escape.png"))
	require.NoError(t, statErr)
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Resolves to a name outside the allow-list after sanitization.
	_, err = store.Path("../../../etc/passwd")
	require.Error(t, err)

	_, err = store.Path("..")
	require.ErrorIs(t, err, ErrBadFilename)
}

func TestPathMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Path("nope.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}
