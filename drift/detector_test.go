package drift

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func artifacts() []typegen.Artifact {
	return []typegen.Artifact{
		{Backend: "typescript", Path: "src/types.generated.ts", Content: []byte("export type Tone = \"NEUTRAL\";\n")},
		{Backend: "python", Path: "py/models.generated.py", Content: []byte("SCHEMA_VERSION = \"1.0\"\n")},
	}
}

func TestCheckMatch(t *testing.T) {
	root := t.TempDir()
	for _, a := range artifacts() {
		writeFile(t, filepath.Join(root, a.Path), string(a.Content))
	}

	results, err := NewDetector(DirSource{Root: root}).Check(context.Background(), artifacts())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, StatusMatch, r.Status, r.Path)
		assert.Empty(t, r.Diff)
	}
}

func TestCheckDetectsDriftAndMissing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/types.generated.ts"), "export type Tone = \"FRIENDLY\";\n")

	results, err := NewDetector(DirSource{Root: root}).Check(context.Background(), artifacts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDrift))
	assert.False(t, errors.IsFatal(err), "drift is distinct from schema errors")
	assert.Contains(t, errors.FlattenHints(err), "contractgen generate")

	require.Len(t, results, 2)
	assert.Equal(t, StatusDiffers, results[0].Status)
	assert.Contains(t, results[0].Diff, "FRIENDLY")
	assert.Contains(t, results[0].Diff, "NEUTRAL")
	assert.Equal(t, StatusMissing, results[1].Status)

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "working tree", de.Source)
	require.Len(t, de.Results, 2)
	assert.Contains(t, de.Error(), "src/types.generated.ts (differs)")
	assert.Contains(t, de.Error(), "py/models.generated.py (missing)")
}

func TestCheckLeavesCheckedInFilesAlone(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src/types.generated.ts")
	writeFile(t, path, "stale\n")

	_, err := NewDetector(DirSource{Root: root}).Check(context.Background(), artifacts()[:1])
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "stale\n", string(data))
}

func TestCheckUsesScratchDirectory(t *testing.T) {
	root := t.TempDir()
	scratch := t.TempDir()
	for _, a := range artifacts() {
		writeFile(t, filepath.Join(root, a.Path), string(a.Content))
	}

	d := &Detector{Source: DirSource{Root: root}, Scratch: scratch}
	_, err := d.Check(context.Background(), artifacts())
	require.NoError(t, err)

	staged, err := os.ReadFile(filepath.Join(scratch, "python", "models.generated.py"))
	require.NoError(t, err)
	assert.Equal(t, "SCHEMA_VERSION = \"1.0\"\n", string(staged))
}

func TestLineDiff(t *testing.T) {
	assert.Empty(t, LineDiff([]byte("a\nb\n"), []byte("a\nb\n")))

	diff := LineDiff([]byte("a\nb\n"), []byte("a\nc\n"))
	assert.Contains(t, diff, `"b"`)
	assert.Contains(t, diff, `"c"`)
}
