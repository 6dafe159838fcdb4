package artifact_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/artifact"
)

func TestDir_WriteRead(t *testing.T) {
	ctx := context.Background()
	d := artifact.NewDir(t.TempDir())

	require.NoError(t, d.Write(ctx, "out/prog.py", "print(1)\n"))
	text, err := d.Read(ctx, "out/prog.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", text)

	require.NoError(t, d.Write(ctx, "out/prog.py", "print(2)\n"))
	text, err = d.Read(ctx, "out/prog.py")
	require.NoError(t, err)
	assert.Equal(t, "print(2)\n", text)

	entries, err := os.ReadDir(filepath.Join(d.Root, "out"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDir_ReadMissing(t *testing.T) {
	d := artifact.NewDir(t.TempDir())
	text, err := d.Read(context.Background(), "nope.txt")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDir_AbsolutePath(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "abs.txt")
	d := artifact.NewDir(root)

	require.NoError(t, d.Write(context.Background(), abs, "x"))
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestDir_Errors(t *testing.T) {
	d := artifact.NewDir(t.TempDir())
	assert.Error(t, d.Write(context.Background(), "", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Write(ctx, "a.txt", "x"), context.Canceled)
	_, err := d.Read(ctx, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
