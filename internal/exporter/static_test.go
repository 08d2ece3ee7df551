package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eegviz/internal/config"
)

func TestFileURL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/tmp/plot.html", "file:///tmp/plot.html"},
		{"/out dir/multichannel_plot.html", "file:///out%20dir/multichannel_plot.html"},
	}

	for _, tt := range tests {
		if got := fileURL(tt.path); got != tt.want {
			t.Errorf("fileURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewStaticExporterDefaults(t *testing.T) {
	s := NewStaticExporter(nil, config.ExportConfig{}, nil)

	assert.Equal(t, 1200, s.cfg.PNGWidth)
	assert.Equal(t, 800, s.cfg.PNGHeight)
	assert.Equal(t, 2.0, s.cfg.PNGScale)
	assert.Equal(t, 12.0, s.cfg.PDFWidthInch)
	assert.Equal(t, 8.0, s.cfg.PDFHeightInch)
	assert.Equal(t, 60*time.Second, s.cfg.ChromeTimeout)
}
