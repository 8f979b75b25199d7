package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestReadSeedFile(t *testing.T) {
	games, err := readSeedFile(filepath.Join("..", "seeds", "games.yaml"))
	require.NoError(t, err)
	require.Len(t, games, 4)

	assert.Equal(t, "The Legend of Zelda: Breath of the Wild", games[0].Title)
	require.NotNil(t, games[0].Rating)
	assert.Equal(t, 10.0, *games[0].Rating)
	assert.True(t, games[0].Masterpiece)
	assert.Contains(t, games[0].Review, "**Best**")

	assert.Nil(t, games[1].Rating)
	assert.Equal(t, []string{"Alex", "Sam"}, games[2].Friends)
}

func TestReadSeedFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("games: [\n"), 0o600))

	_, err := readSeedFile(path)
	assert.Error(t, err)

	_, err = readSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetOut(&out)
	hashPasswordCmd.SetIn(strings.NewReader("s3cret\n"))
	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, nil))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err := hashPassword("")
	assert.Error(t, err)
}
