package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	s := New("mem://localhost/artifact-write-read")

	ok, err := s.Exists(ctx, "rg-app", "summary.md")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, []byte("# rg-app"), "rg-app", "summary.md"))

	ok, err = s.Exists(ctx, "rg-app", "summary.md")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Read(ctx, "rg-app", "summary.md")
	require.NoError(t, err)
	assert.Equal(t, "# rg-app", string(data))
}

func TestStore_WriteIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New("mem://localhost/artifact-if-absent")

	wrote, err := s.WriteIfAbsent(ctx, []byte("first"), "template.json")
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = s.WriteIfAbsent(ctx, []byte("second"), "template.json")
	require.NoError(t, err)
	assert.False(t, wrote)

	data, err := s.Read(ctx, "template.json")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestStore_LocalDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := New(dir)

	require.NoError(t, s.Write(ctx, []byte("{}"), "rg-data", "template.json"))

	data, err := os.ReadFile(filepath.Join(dir, "rg-data", "template.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestStore_ReadMissing(t *testing.T) {
	s := New("mem://localhost/artifact-missing")
	_, err := s.Read(context.Background(), "nope.md")
	assert.Error(t, err)
}
