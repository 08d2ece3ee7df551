package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eegviz/internal/chart"
	"eegviz/internal/config"
	"eegviz/internal/dataprocessing"
	"eegviz/internal/shared/testutil"
	"eegviz/pkg/contracts/domain"
)

func loadWorkedTable(t *testing.T) *domain.SignalTable {
	t.Helper()
	fixtures := testutil.NewRecordingFixtures(t)
	table, err := dataprocessing.NewLoader(nil).Load(
		context.Background(), fixtures.WorkedScenario(t), 1)
	require.NoError(t, err)
	return table
}

func TestExporterFullRun(t *testing.T) {
	table := loadWorkedTable(t)
	fig, err := chart.NewBuilder(nil).Build(context.Background(), table, chart.Options{})
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "out")
	exp := New(nil, config.ExportConfig{DisableStatic: true}, nil, nil)

	artifacts, err := exp.Export(context.Background(), fig, table,
		Options{OutputDir: outDir, IncludeTable: true})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "multichannel_plot.html"), artifacts.HTML)
	assert.FileExists(t, artifacts.HTML)
	assert.Equal(t, filepath.Join(outDir, "cleaned_data.csv"), artifacts.CSV)
	assert.FileExists(t, artifacts.CSV)
	assert.Equal(t, filepath.Join(outDir, "cleaned_data.xlsx"), artifacts.XLSX)
	assert.FileExists(t, artifacts.XLSX)

	assert.Empty(t, artifacts.PNG, "static export disabled leaves no snapshot")
	assert.Empty(t, artifacts.PDF)
}

func TestExporterHTMLOnly(t *testing.T) {
	table := loadWorkedTable(t)
	fig, err := chart.NewBuilder(nil).Build(context.Background(), table, chart.Options{})
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "out")
	exp := New(nil, config.ExportConfig{DisableStatic: true}, nil, nil)

	artifacts, err := exp.Export(context.Background(), fig, table, Options{OutputDir: outDir})
	require.NoError(t, err)

	assert.FileExists(t, artifacts.HTML)
	assert.Empty(t, artifacts.CSV)
	assert.NoFileExists(t, filepath.Join(outDir, "cleaned_data.csv"))
}

func TestExporterCreatesOutputDir(t *testing.T) {
	table := loadWorkedTable(t)
	fig, err := chart.NewBuilder(nil).Build(context.Background(), table, chart.Options{})
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "a", "b", "c")
	exp := New(nil, config.ExportConfig{DisableStatic: true}, nil, nil)

	_, err = exp.Export(context.Background(), fig, table, Options{OutputDir: outDir})
	require.NoError(t, err)

	info, err := os.Stat(outDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
