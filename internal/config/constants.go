package config

import "time"

// Application constants - hardcoded values shared across the eegviz tools
const (
	// Application Info
	AppName = "eegviz"

	// Default input and output locations used by the CLI flags
	DefaultRecordingFile = "EEG and ECG data_02_raw.csv"
	DefaultOutputDir     = "output"
	DefaultChartTitle    = "EEG and ECG Data Visualization"

	// Artifact file names written into the output directory
	ArtifactHTML = "multichannel_plot.html"
	ArtifactPNG  = "multichannel_plot.png"
	ArtifactPDF  = "multichannel_plot.pdf"

	// Cleaned-table export file names
	ArtifactTableCSV  = "cleaned_data.csv"
	ArtifactTableXLSX = "cleaned_data.xlsx"

	// File Paths (relative to executable)
	DefaultDataDir       = "data"
	DefaultLogsDir       = "logs"
	DefaultRecordingsDir = "data/recordings"
	DefaultCacheDir      = "data/cache"

	// Operation Timeouts
	DefaultChromeTimeout  = 60 * time.Second
	BrowserProbeTimeout   = 5 * time.Second
	ViewerShutdownTimeout = 10 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// API Endpoints (viewer)
const (
	HealthEndpoint  = "/api/health"
	SummaryEndpoint = "/api/summary"
	MetricsEndpoint = "/metrics"
)
