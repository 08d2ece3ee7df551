package chart

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"eegviz/internal/config"
	apperrors "eegviz/internal/errors"
	"eegviz/pkg/contracts/domain"
)

const (
	chartHeight = 820

	// Vertical panel domains, split with 0.06 spacing: EEG on top, ECG below.
	eegDomainLow  = 0.53
	ecgDomainHigh = 0.47

	// Traces switch to the WebGL renderer above this row count.
	webglThreshold = 10000

	// Stable view-state key so re-rendered figures keep zoom and pan.
	uiRevision = "eegviz-1"
)

// TimeWindow is an initially visible [Start, End] slice of the time axis,
// in seconds.
type TimeWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end" validate:"gtfield=Start"`
}

// Options control chart construction. The zero value plots every known
// channel under the default title in millivolt mode.
type Options struct {
	// Title is the figure headline. Empty falls back to the default.
	Title string `validate:"max=300"`
	// ECGUnits selects the bottom panel presentation, "uv" or "mv".
	// Empty falls back to "mv".
	ECGUnits string `validate:"omitempty,oneof=uv mv"`
	// Channels restricts plotting to the named channels. Nil keeps every
	// known channel present in the table.
	Channels []string `validate:"omitempty,dive,min=1"`
	// InitialRange preselects the visible time window.
	InitialRange *TimeWindow
}

// Builder assembles the two-panel figure from a cleaned signal table.
type Builder struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewBuilder creates a Builder. A nil logger falls back to slog.Default().
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger, validate: validator.New()}
}

// Build produces the figure: EEG channels on the top panel in µV, the ECG
// pair plus the CM reference on the bottom panel, time axes linked, with a
// range slider and preset zoom buttons on the bottom axis. The table is
// read-only; unit conversion happens on copies. An empty table yields a
// trace-less but otherwise complete figure.
func (b *Builder) Build(ctx context.Context, table *domain.SignalTable, opts Options) (*Figure, error) {
	start := time.Now()

	if opts.Title == "" {
		opts.Title = config.DefaultChartTitle
	}
	if opts.ECGUnits == "" {
		opts.ECGUnits = "mv"
	}
	if err := b.validate.Struct(opts); err != nil {
		return nil, apperrors.NewValidationError(formatOptionErrors(err))
	}

	eeg, ecg, reference := partitionChannels(table, opts.Channels)

	toMV := opts.ECGUnits == "mv"
	unitLabel := "uV"
	if toMV {
		unitLabel = "mV"
	}

	traceType := "scatter"
	if table.Rows() > webglThreshold {
		traceType = "scattergl"
	}

	b.logger.DebugContext(ctx, "Partitioned channels",
		slog.Any("eeg", eeg),
		slog.Any("ecg", ecg),
		slog.Any("reference", reference))

	timeAxis := Samples(table.Time)
	shown := true

	traces := make([]Trace, 0, len(eeg)+len(ecg)+len(reference))
	for i, name := range eeg {
		samples, _ := table.Channel(name)
		traces = append(traces, Trace{
			Type:          traceType,
			X:             timeAxis,
			Y:             Samples(samples),
			Mode:          "lines",
			Name:          name,
			Line:          Line{Color: paletteColor(i), Width: 0.8},
			HoverTemplate: hoverTemplate(name, "uV"),
			LegendGroup:   "eeg",
			XAxis:         "x",
			YAxis:         "y",
		})
	}
	for i, name := range ecg {
		samples, _ := table.Channel(name)
		traces = append(traces, Trace{
			Type:          traceType,
			X:             timeAxis,
			Y:             convertUnits(samples, toMV),
			Mode:          "lines",
			Name:          name,
			Line:          Line{Color: paletteColor(i), Width: 1.5},
			Opacity:       0.9,
			HoverTemplate: hoverTemplate(name, unitLabel),
			LegendGroup:   "ecg",
			ShowLegend:    &shown,
			XAxis:         "x2",
			YAxis:         "y2",
		})
	}
	for _, name := range reference {
		samples, _ := table.Channel(name)
		traces = append(traces, Trace{
			Type:          traceType,
			X:             timeAxis,
			Y:             convertUnits(samples, toMV),
			Mode:          "lines",
			Name:          name,
			Line:          Line{Color: "lightgray", Width: 0.8, Dash: "dot"},
			Opacity:       0.6,
			HoverTemplate: hoverTemplate(name, unitLabel),
			LegendGroup:   "cm",
			ShowLegend:    &shown,
			XAxis:         "x2",
			YAxis:         "y3",
		})
	}

	layout := b.buildLayout(opts, unitLabel)
	if lo, hi, ok := ecgBounds(table, ecg, toMV); ok {
		pad := (hi - lo) * 0.1
		layout.YAxis2.Range = []float64{lo - pad, hi + pad}
	}

	fig := &Figure{
		Data:   traces,
		Layout: layout,
		Config: Config{Responsive: true},
	}

	b.logger.InfoContext(ctx, "Built chart",
		slog.String("trace_type", traceType),
		slog.Int("traces", len(traces)),
		slog.Int("rows", table.Rows()),
		slog.Duration("duration", time.Since(start)))

	return fig, nil
}

func (b *Builder) buildLayout(opts Options, unitLabel string) Layout {
	hidden := false
	noGrid := false

	layout := Layout{
		Title:      Title{Text: opts.Title, X: 0.5, Font: &Font{Size: 20}},
		Height:     chartHeight,
		Margin:     Margin{T: 80, R: 220, B: 120, L: 70},
		ShowLegend: true,
		Legend: Legend{
			Orientation: "v",
			YAnchor:     "top",
			Y:           0.98,
			XAnchor:     "left",
			X:           1.02,
			ItemSizing:  "trace",
			BGColor:     "rgba(255,255,255,0.8)",
		},
		HoverMode:  "x unified",
		Template:   whiteTemplate(),
		UIRevision: uiRevision,
		ModeBar: &ModeBar{Add: []string{
			"zoom2d", "pan2d", "select2d", "lasso2d",
			"zoomIn2d", "zoomOut2d", "autoScale2d", "resetScale2d",
		}},
		XAxis: &Axis{
			Type:           "linear",
			Domain:         []float64{0, 1},
			Anchor:         "y",
			ShowTickLabels: &hidden,
			RangeSlider:    &RangeSlider{Visible: false},
		},
		XAxis2: &Axis{
			Title:       &AxisTitle{Text: "Time (seconds)"},
			Type:        "linear",
			Domain:      []float64{0, 1},
			Anchor:      "y2",
			Matches:     "x",
			RangeSlider: &RangeSlider{Visible: true},
			RangeSelector: &RangeSelector{Buttons: []SelectorButton{
				{Step: "second", StepMode: "backward", Count: 5, Label: "5s"},
				{Step: "second", StepMode: "backward", Count: 10, Label: "10s"},
				{Step: "second", StepMode: "backward", Count: 30, Label: "30s"},
				{Step: "minute", StepMode: "backward", Count: 1, Label: "1m"},
				{Step: "all", Label: "All"},
			}},
		},
		YAxis: &Axis{
			Title:  &AxisTitle{Text: "Amplitude (uV)"},
			Domain: []float64{eegDomainLow, 1},
			Anchor: "x",
		},
		YAxis2: &Axis{
			Title:  &AxisTitle{Text: "ECG (" + unitLabel + ")"},
			Domain: []float64{0, ecgDomainHigh},
			Anchor: "x2",
		},
		YAxis3: &Axis{
			Title:      &AxisTitle{Text: "CM (" + unitLabel + ")"},
			Anchor:     "x2",
			Overlaying: "y2",
			Side:       "right",
			ShowGrid:   &noGrid,
		},
		Annotations: []Annotation{
			panelTitle("EEG Channels (uV)", 1.0),
			panelTitle("ECG and CM ("+unitLabel+")", ecgDomainHigh),
		},
	}

	if opts.InitialRange != nil {
		layout.XAxis.Range = []float64{opts.InitialRange.Start, opts.InitialRange.End}
	}

	return layout
}

func panelTitle(text string, y float64) Annotation {
	return Annotation{
		Text:      text,
		X:         0.5,
		Y:         y,
		XRef:      "paper",
		YRef:      "paper",
		XAnchor:   "center",
		YAnchor:   "bottom",
		ShowArrow: false,
		YShift:    8,
		Font:      &Font{Size: 12},
	}
}

// partitionChannels intersects the fixed vocabulary with the table columns,
// in vocabulary order, honoring an optional allow-list. Unknown table columns
// never plot; unknown allow-list names are silently ignored.
func partitionChannels(table *domain.SignalTable, allow []string) (eeg, ecg, reference []string) {
	var allowed map[string]bool
	if len(allow) > 0 {
		allowed = make(map[string]bool, len(allow))
		for _, name := range allow {
			allowed[name] = true
		}
	}
	keep := func(name string) bool {
		return table.HasChannel(name) && (allowed == nil || allowed[name])
	}
	for _, name := range domain.EEGChannels {
		if keep(name) {
			eeg = append(eeg, name)
		}
	}
	for _, name := range domain.ECGChannels {
		if keep(name) {
			ecg = append(ecg, name)
		}
	}
	for _, name := range domain.ReferenceChannels {
		if keep(name) {
			reference = append(reference, name)
		}
	}
	return eeg, ecg, reference
}

// convertUnits returns the series scaled µV→mV when toMV is set. Missing
// samples stay missing. The source slice is never modified.
func convertUnits(samples []float64, toMV bool) Samples {
	if !toMV {
		return Samples(samples)
	}
	out := make(Samples, len(samples))
	for i, v := range samples {
		out[i] = v / 1000.0
	}
	return out
}

// ecgBounds returns the finite [min, max] over the named ECG channels after
// unit conversion. ok is false when no finite sample exists.
func ecgBounds(table *domain.SignalTable, names []string, toMV bool) (lo, hi float64, ok bool) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, name := range names {
		samples, found := table.Channel(name)
		if !found {
			continue
		}
		for _, v := range samples {
			if math.IsNaN(v) {
				continue
			}
			if toMV {
				v /= 1000.0
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			ok = true
		}
	}
	return lo, hi, ok
}

func hoverTemplate(name, unit string) string {
	return fmt.Sprintf("<b>%s</b><br>Time: %%{x:.3f}s<br>Value: %%{y:.1f}%s<br><extra></extra>", name, unit)
}

func formatOptionErrors(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return "invalid chart options: " + err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "gtfield":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return "invalid chart options: " + strings.Join(parts, "; ")
}
