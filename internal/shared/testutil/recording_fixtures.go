package testutil

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// RecordingFixtures provides sample recording files for tests.
// Files are written into a per-test temporary directory.
type RecordingFixtures struct {
	Dir string
}

// NewRecordingFixtures creates a fixtures manager rooted at a temp directory
func NewRecordingFixtures(t *testing.T) *RecordingFixtures {
	t.Helper()
	return &RecordingFixtures{Dir: t.TempDir()}
}

// WriteCSV writes raw CSV content under the fixtures directory and returns the path
func (f *RecordingFixtures) WriteCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(f.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// ValidRecording writes a small mixed recording: comment lines, unordered
// rows, one unparseable Time cell, one unparseable channel cell, ignored
// metadata columns, and an unknown passthrough column.
func (f *RecordingFixtures) ValidRecording(t *testing.T) string {
	t.Helper()

	content := strings.Join([]string{
		"# DSI-24 raw export",
		"# sampling interval 3.333 ms",
		"Time,P3,C3,Fp1,X1:LEOG,CM,Trigger,Time_Offset,Battery",
		"0.010,2.5,-1.0,12.5,140.0,2050.0,0,0,97",
		"0.000,1.5,-0.5,11.0,138.2,2049.1,0,0,97",
		"bad,9.9,9.9,9.9,9.9,9.9,0,0,97",
		"0.003,1.9,bad,11.8,139.0,2049.8,0,0,96",
		"0.007,2.2,-0.8,12.1,139.6,2050.4,0,0,96",
	}, "\n") + "\n"

	return f.WriteCSV(t, "valid_recording.csv", content)
}

// MissingTimeRecording writes a recording without the required Time column
func (f *RecordingFixtures) MissingTimeRecording(t *testing.T) string {
	t.Helper()

	content := strings.Join([]string{
		"Timestamp,Fp1,Fp2",
		"0.0,1.0,2.0",
		"0.1,1.1,2.1",
	}, "\n") + "\n"

	return f.WriteCSV(t, "missing_time.csv", content)
}

// WorkedScenario writes the canonical cleaning scenario: a malformed channel
// cell becomes missing without dropping the row, and Trigger is removed.
func (f *RecordingFixtures) WorkedScenario(t *testing.T) string {
	t.Helper()

	content := strings.Join([]string{
		"Time,Fp1,Trigger,CM",
		"0.0,1.0,9,5000",
		"0.1,bad,9,5200",
		"0.2,3.0,9,5400",
	}, "\n") + "\n"

	return f.WriteCSV(t, "worked_scenario.csv", content)
}

// BOMRecording writes a recording whose header starts with a UTF-8 BOM
func (f *RecordingFixtures) BOMRecording(t *testing.T) string {
	t.Helper()

	content := "\xEF\xBB\xBF" + strings.Join([]string{
		"Time,Fp1,Fp2",
		"0.0,1.0,2.0",
		"0.1,1.1,2.1",
	}, "\n") + "\n"

	return f.WriteCSV(t, "bom_recording.csv", content)
}

// SequentialRecording writes a recording of the given row count where
// channel values are derived from the row index, handy for decimation checks.
func (f *RecordingFixtures) SequentialRecording(t *testing.T, rows int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Time,Fp1,X1:LEOG,CM\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%.3f,%d,%d,%d\n", float64(i)*0.01, i, i*10, i*100)
	}

	return f.WriteCSV(t, "sequential.csv", b.String())
}

// XLSXRecording writes an xlsx workbook whose first sheet mirrors the
// worked scenario recording.
func (f *RecordingFixtures) XLSXRecording(t *testing.T) string {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"Time", "Fp1", "Trigger", "CM"},
		{0.0, 1.0, 9, 5000},
		{0.1, "bad", 9, 5200},
		{0.2, 3.0, 9, 5400},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write sheet row: %v", err)
		}
	}

	path := filepath.Join(f.Dir, "worked_scenario.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("failed to save xlsx fixture: %v", err)
	}
	return path
}

// NearlyEqual reports whether two floats match within a small tolerance,
// treating two NaNs as equal so expected missing cells can be compared.
func NearlyEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) < 1e-9
}
