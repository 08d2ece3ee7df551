package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "eegviz/internal/errors"
	"eegviz/internal/shared/testutil"
)

func TestLoaderWorkedScenario(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WorkedScenario(t)

	loader := NewLoader(nil)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Rows())
	assert.Equal(t, []string{"Fp1", "CM"}, table.ChannelNames(),
		"Trigger must be removed, signal columns kept in header order")

	fp1, ok := table.Channel("Fp1")
	require.True(t, ok)
	assert.Equal(t, 1.0, fp1[0])
	assert.True(t, math.IsNaN(fp1[1]), "malformed cell becomes missing, row survives")
	assert.Equal(t, 3.0, fp1[2])

	cm, ok := table.Channel("CM")
	require.True(t, ok)
	assert.Equal(t, []float64{5000, 5200, 5400}, cm)

	minTime, maxTime, ok := table.TimeRange()
	require.True(t, ok)
	assert.Equal(t, 0.0, minTime)
	assert.Equal(t, 0.2, maxTime)
}

func TestLoaderCleaning(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.ValidRecording(t)

	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err)

	// The row with an unparseable Time cell is gone, the rest are sorted.
	require.Equal(t, 4, table.Rows())
	assert.Equal(t, []float64{0.000, 0.003, 0.007, 0.010}, table.Time)

	// Ignored metadata columns vanish, the unknown Battery column passes through.
	assert.Equal(t, []string{"P3", "C3", "Fp1", "X1:LEOG", "CM", "Battery"},
		table.ChannelNames())

	p3, ok := table.Channel("P3")
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 1.9, 2.2, 2.5}, p3, "samples follow the time sort")

	c3, ok := table.Channel("C3")
	require.True(t, ok)
	assert.True(t, math.IsNaN(c3[1]))
	assert.Equal(t, -0.8, c3[2])

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Loaded recording")
	testutil.AssertLogAttr(t, handler, "rows", int64(4))
}

func TestLoaderMissingTime(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.MissingTimeRecording(t)

	loader := NewLoader(nil)
	_, err := loader.Load(context.Background(), path, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
	assert.Contains(t, err.Error(), `"Time"`)
}

func TestLoaderBOMHeader(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.BOMRecording(t)

	loader := NewLoader(nil)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, []string{"Fp1", "Fp2"}, table.ChannelNames())
}

func TestLoaderDecimation(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.SequentialRecording(t, 10)
	loader := NewLoader(nil)

	tests := []struct {
		name     string
		step     int
		wantRows int
		wantFp1  []float64
	}{
		{name: "step one keeps everything", step: 1, wantRows: 10,
			wantFp1: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "step two halves", step: 2, wantRows: 5,
			wantFp1: []float64{0, 2, 4, 6, 8}},
		{name: "step three rounds up", step: 3, wantRows: 4,
			wantFp1: []float64{0, 3, 6, 9}},
		{name: "zero step treated as one", step: 0, wantRows: 10,
			wantFp1: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := loader.Load(context.Background(), path, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, table.Rows())

			fp1, ok := table.Channel("Fp1")
			require.True(t, ok)
			assert.Equal(t, tt.wantFp1, fp1)
		})
	}
}

func TestLoaderXLSX(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	xlsxPath := fixtures.XLSXRecording(t)
	csvPath := fixtures.WorkedScenario(t)

	loader := NewLoader(nil)
	fromXLSX, err := loader.Load(context.Background(), xlsxPath, 1)
	require.NoError(t, err)
	fromCSV, err := loader.Load(context.Background(), csvPath, 1)
	require.NoError(t, err)

	// Both formats run through the same cleaning pipeline.
	assert.Equal(t, fromCSV.ChannelNames(), fromXLSX.ChannelNames())
	assert.Equal(t, fromCSV.Time, fromXLSX.Time)
	for _, name := range fromCSV.ChannelNames() {
		want, _ := fromCSV.Channel(name)
		got, _ := fromXLSX.Channel(name)
		require.Len(t, got, len(want))
		for i := range want {
			assert.True(t, testutil.NearlyEqual(want[i], got[i]),
				"channel %s sample %d: want %v, got %v", name, i, want[i], got[i])
		}
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.Load(context.Background(), "does/not/exist.csv", 1)
	require.Error(t, err)
	assert.False(t, apperrors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "failed to open recording")
}

func TestLoaderEmptyFile(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WriteCSV(t, "empty.csv", "")

	loader := NewLoader(nil)
	_, err := loader.Load(context.Background(), path, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestLoaderCommentOnlyFile(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WriteCSV(t, "comments.csv", "# one\n# two\n")

	loader := NewLoader(nil)
	_, err := loader.Load(context.Background(), path, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestLoaderAllRowsUnparseableTime(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WriteCSV(t, "no_valid_time.csv", "Time,Fp1\nx,1.0\ny,2.0\n")

	loader := NewLoader(nil)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err, "a zero-row table is valid output")
	assert.True(t, table.Empty())
	assert.Equal(t, []string{"Fp1"}, table.ChannelNames())

	_, _, ok := table.TimeRange()
	assert.False(t, ok)
}

func TestLoaderRaggedRows(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WriteCSV(t, "ragged.csv", "Time,Fp1,Fp2\n0.0,1.0\n0.1,1.1,2.1\n")

	loader := NewLoader(nil)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err)
	require.Equal(t, 2, table.Rows())

	fp2, ok := table.Channel("Fp2")
	require.True(t, ok)
	assert.True(t, math.IsNaN(fp2[0]), "missing trailing cell reads as NaN")
	assert.Equal(t, 2.1, fp2[1])
}

func TestLoaderStableSortPreservesTies(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	path := fixtures.WriteCSV(t, "ties.csv",
		"Time,Fp1\n0.2,30\n0.1,10\n0.1,20\n")

	loader := NewLoader(nil)
	table, err := loader.Load(context.Background(), path, 1)
	require.NoError(t, err)

	fp1, ok := table.Channel("Fp1")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 20, 30}, fp1,
		"equal timestamps keep their source order")
}
