package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"eegviz/internal/dataprocessing"
	"eegviz/internal/shared/testutil"
)

func TestTableCSVRoundTrip(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	src := fixtures.WorkedScenario(t)

	loader := dataprocessing.NewLoader(nil)
	table, err := loader.Load(context.Background(), src, 1)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "cleaned_data.csv")
	require.NoError(t, NewTableWriter(nil).WriteCSV(context.Background(), table, outPath))

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}),
		"spreadsheet-friendly BOM prefix")

	lines := strings.Split(strings.TrimPrefix(string(raw), "\uFEFF"), "\n")
	assert.Equal(t, "Time,Fp1,CM", lines[0])
	assert.Equal(t, "0.1,,5200", lines[2], "missing sample exports as an empty cell")

	// An exported table reloads through the same pipeline to an equal table.
	reloaded, err := loader.Load(context.Background(), outPath, 1)
	require.NoError(t, err)
	assert.Equal(t, table.ChannelNames(), reloaded.ChannelNames())
	assert.Equal(t, table.Time, reloaded.Time)
	for _, name := range table.ChannelNames() {
		want, _ := table.Channel(name)
		got, _ := reloaded.Channel(name)
		require.Len(t, got, len(want))
		for i := range want {
			assert.True(t, testutil.NearlyEqual(want[i], got[i]),
				"channel %s sample %d: want %v, got %v", name, i, want[i], got[i])
		}
	}
}

func TestTableXLSX(t *testing.T) {
	fixtures := testutil.NewRecordingFixtures(t)
	src := fixtures.WorkedScenario(t)

	loader := dataprocessing.NewLoader(nil)
	table, err := loader.Load(context.Background(), src, 1)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "cleaned_data.xlsx")
	require.NoError(t, NewTableWriter(nil).WriteXLSX(context.Background(), table, outPath))

	wb, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Time", "Fp1", "CM"}, rows[0])
	assert.Equal(t, "", rows[2][1], "missing sample leaves the cell empty")
	assert.Equal(t, "5200", rows[2][2])

	// The workbook loads back through the same pipeline.
	reloaded, err := loader.Load(context.Background(), outPath, 1)
	require.NoError(t, err)
	assert.Equal(t, table.ChannelNames(), reloaded.ChannelNames())
	assert.Equal(t, table.Time, reloaded.Time)
}
