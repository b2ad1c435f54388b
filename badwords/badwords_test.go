package badwords

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsMatchesWholeWordsIgnoringCase(t *testing.T) {
	f := New("scam", "rubbish")

	assert.True(t, f.Contains("Total SCAM, avoid"))
	assert.True(t, f.Contains("rubbish!"))
	assert.False(t, f.Contains("scampi for lunch"))
	assert.False(t, f.Contains(""))
}

func TestLoadReplacesList(t *testing.T) {
	f := New("old")
	require.NoError(t, f.Load(strings.NewReader("# comment\n\nScam\n  rubbish  \n")))

	assert.Equal(t, 2, f.Len())
	assert.True(t, f.Contains("scam"))
	assert.False(t, f.Contains("old"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	require.NoError(t, os.WriteFile(path, []byte("scam\n"), 0o600))

	f := New()
	require.NoError(t, f.LoadFile(path))
	assert.True(t, f.Contains("a scam"))

	assert.Error(t, f.LoadFile(filepath.Join(t.TempDir(), "missing.txt")))
}

func TestAddRemove(t *testing.T) {
	f := New()
	assert.Error(t, f.Add("  "))
	require.NoError(t, f.Add("Scam"))
	assert.True(t, f.Contains("scam"))
	assert.True(t, f.Remove("SCAM"))
	assert.False(t, f.Remove("scam"))
	assert.False(t, f.Contains("scam"))
}
