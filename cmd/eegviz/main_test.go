package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eegviz/internal/chart"
	"eegviz/internal/config"
)

func TestParseChannelList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "empty keeps default selection",
			raw:      "",
			expected: nil,
		},
		{
			name:     "whitespace only keeps default selection",
			raw:      "   ",
			expected: nil,
		},
		{
			name:     "single channel",
			raw:      "Fp1",
			expected: []string{"Fp1"},
		},
		{
			name:     "multiple channels with spaces",
			raw:      "Fp1, Fp2 ,O1",
			expected: []string{"Fp1", "Fp2", "O1"},
		},
		{
			name:     "empty parts dropped",
			raw:      "Fp1,,X1:LEOG,",
			expected: []string{"Fp1", "X1:LEOG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChannelList(tt.raw))
		})
	}
}

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    *chart.TimeWindow
		expectError bool
	}{
		{
			name:     "empty means no window",
			raw:      "",
			expected: nil,
		},
		{
			name:     "valid window",
			raw:      "2.5,10",
			expected: &chart.TimeWindow{Start: 2.5, End: 10},
		},
		{
			name:     "valid window with spaces",
			raw:      " 0 , 30 ",
			expected: &chart.TimeWindow{Start: 0, End: 30},
		},
		{
			name:        "missing end",
			raw:         "5",
			expectError: true,
		},
		{
			name:        "too many parts",
			raw:         "1,2,3",
			expectError: true,
		},
		{
			name:        "non-numeric start",
			raw:         "abc,10",
			expectError: true,
		},
		{
			name:        "end before start",
			raw:         "10,5",
			expectError: true,
		},
		{
			name:        "zero-length window",
			raw:         "5,5",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, err := parseTimeWindow(tt.raw)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, window)
		})
	}
}

func TestBuildChartOptions(t *testing.T) {
	opts, err := buildChartOptions("Session 02", "uv", "Fp1,O2", "1,4")
	require.NoError(t, err)

	assert.Equal(t, "Session 02", opts.Title)
	assert.Equal(t, "uv", opts.ECGUnits)
	assert.Equal(t, []string{"Fp1", "O2"}, opts.Channels)
	require.NotNil(t, opts.InitialRange)
	assert.Equal(t, 1.0, opts.InitialRange.Start)
	assert.Equal(t, 4.0, opts.InitialRange.End)

	_, err = buildChartOptions("t", "mv", "", "4,1")
	assert.ErrorContains(t, err, "initial-range")
}

func TestResolveSourceFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "session.csv")
	require.NoError(t, os.WriteFile(file, []byte("Time\n0\n"), 0o644))

	paths := &config.Paths{RecordingsDir: filepath.Join(dir, "recordings")}

	resolved, err := resolveSource(paths, file)
	require.NoError(t, err)
	assert.Equal(t, file, resolved)
}

func TestResolveSourceDirectoryPicksNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "a.csv")
	newer := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(older, []byte("Time\n0\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("Time\n0\n"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	paths := &config.Paths{RecordingsDir: dir}

	resolved, err := resolveSource(paths, dir)
	require.NoError(t, err)
	assert.Equal(t, newer, resolved)
}

func TestResolveSourceMissing(t *testing.T) {
	paths := &config.Paths{RecordingsDir: t.TempDir()}

	_, err := resolveSource(paths, filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
