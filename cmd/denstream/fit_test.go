package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

func writeBlobs(t *testing.T, dir, name string, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("x,y,label\n")
	for i := 0; i < n; i++ {
		jx, jy := 0.01*float64(i%5), 0.01*float64(i%3)
		if i%2 == 0 {
			fmt.Fprintf(&sb, "%g,%g,0\n", jx, jy)
		} else {
			fmt.Fprintf(&sb, "%g,%g,1\n", 5+jx, 5+jy)
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFitAndInspect(t *testing.T) {
	dir := t.TempDir()
	input := writeBlobs(t, dir, "points.csv", 40)
	config := filepath.Join(dir, "denstream.yaml")
	require.NoError(t, os.WriteFile(config, []byte("epsilon: 0.5\nmu: 2\ninit_points: 0\n"), 0o600))
	output := filepath.Join(dir, "labels.csv")
	checkpoint := filepath.Join(dir, "state.gob")
	plot := filepath.Join(dir, "clusters.png")

	_, stderr, err := runRoot(t, "fit",
		"--input", input,
		"--config", config,
		"--output", output,
		"--checkpoint", checkpoint,
		"--plot", plot,
		"--batch", "7",
		"--truth-column",
	)
	require.NoError(t, err, stderr)
	assert.Contains(t, stderr, "clusters=2")
	assert.Contains(t, stderr, "adjusted_rand_index=1.0000")

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 40)
	assert.Equal(t, "0", lines[0])
	assert.Equal(t, "1", lines[1])

	_, err = os.Stat(plot)
	require.NoError(t, err)

	stdout, stderr, err := runRoot(t, "inspect", "--checkpoint", checkpoint, "--json")
	require.NoError(t, err, stderr)
	var report struct {
		ID            string           `json:"id"`
		MicroClusters []map[string]any `json:"micro_clusters"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.ID)
	assert.Len(t, report.MicroClusters, 2)

	stdout, _, err = runRoot(t, "inspect", "--checkpoint", checkpoint)
	require.NoError(t, err)
	assert.Contains(t, stdout, "potential")
}

func TestFitResume(t *testing.T) {
	dir := t.TempDir()
	first := writeBlobs(t, dir, "first.csv", 20)
	second := writeBlobs(t, dir, "second.csv", 10)
	checkpoint := filepath.Join(dir, "state.gob")
	t.Setenv("DENSTREAM_EPSILON", "0.5")
	t.Setenv("DENSTREAM_INIT_POINTS", "0")

	_, stderr, err := runRoot(t, "fit", "--input", first, "--truth-column",
		"--output", filepath.Join(dir, "a.csv"), "--checkpoint", checkpoint)
	require.NoError(t, err, stderr)

	stdout, stderr, err := runRoot(t, "fit", "--input", second, "--truth-column", "--resume", checkpoint)
	require.NoError(t, err, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 10)

	for _, scale := range []string{"minmax", "standard"} {
		_, _, err = runRoot(t, "fit", "--input", second, "--truth-column", "--resume", checkpoint, "--scale", scale)
		var cerr *errors.ConfigurationError
		assert.True(t, errors.As(err, &cerr), scale)
	}
	_, _, err = runRoot(t, "fit", "--input", second, "--truth-column", "--resume", checkpoint, "--scale", "none")
	assert.NoError(t, err)
}

func TestFitRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeBlobs(t, dir, "points.csv", 4)

	_, _, err := runRoot(t, "fit", "--input", input, "--scale", "robust")
	assert.Error(t, err)

	_, _, err = runRoot(t, "fit", "--input", input, "--batch", "0")
	assert.Error(t, err)

	_, _, err = runRoot(t, "--log-level", "loud", "fit", "--input", input)
	assert.Error(t, err)

	_, _, err = runRoot(t, "inspect")
	assert.Error(t, err)
}
