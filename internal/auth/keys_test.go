package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_PersistsAcrossCalls(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateKey_RejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "auth.key")

	require.NoError(t, os.WriteFile(keyPath, []byte("zz-not-hex"), 0o600))
	_, err := LoadOrGenerateKey(dir)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString([]byte("short"))), 0o600))
	_, err = LoadOrGenerateKey(dir)
	require.Error(t, err)
}
