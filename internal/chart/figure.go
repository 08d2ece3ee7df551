package chart

import (
	"encoding/json"
	"math"
	"strconv"
)

// Samples is a float64 series that serializes non-finite values as JSON null,
// the representation chart readers use for missing points. Unmarshaling maps
// null back to NaN, so a figure survives a round trip through its JSON form.
type Samples []float64

// MarshalJSON implements json.Marshaler.
func (s Samples) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
		} else {
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Samples) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Samples, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

// Trace is one plotted series.
type Trace struct {
	Type          string  `json:"type"`
	X             Samples `json:"x"`
	Y             Samples `json:"y"`
	Mode          string  `json:"mode"`
	Name          string  `json:"name"`
	Line          Line    `json:"line"`
	Opacity       float64 `json:"opacity,omitempty"`
	HoverTemplate string  `json:"hovertemplate,omitempty"`
	LegendGroup   string  `json:"legendgroup,omitempty"`
	ShowLegend    *bool   `json:"showlegend,omitempty"`
	XAxis         string  `json:"xaxis,omitempty"`
	YAxis         string  `json:"yaxis,omitempty"`
}

// Line styles the stroke of a trace.
type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash,omitempty"`
}

// Title is the figure headline.
type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Font *Font   `json:"font,omitempty"`
}

// Font carries the subset of text styling the figure sets explicitly.
type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Margin is the outer padding of the plotting area, in pixels.
type Margin struct {
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
	L int `json:"l"`
}

// Legend places the channel legend outside the plotting area.
type Legend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
	ItemSizing  string  `json:"itemsizing"`
	BGColor     string  `json:"bgcolor"`
}

// AxisTitle labels one axis.
type AxisTitle struct {
	Text string `json:"text"`
}

// RangeSlider is the draggable overview strip under the bottom time axis.
// Visible has no omitempty: the top axis must serialize an explicit
// {"visible": false} to suppress the slider it would otherwise inherit.
type RangeSlider struct {
	Visible bool `json:"visible"`
}

// SelectorButton is one preset zoom button.
type SelectorButton struct {
	Step     string `json:"step"`
	StepMode string `json:"stepmode,omitempty"`
	Count    int    `json:"count,omitempty"`
	Label    string `json:"label"`
}

// RangeSelector groups the preset zoom buttons above the time axis.
type RangeSelector struct {
	Buttons []SelectorButton `json:"buttons"`
}

// Axis describes one x or y axis of the two-panel layout.
type Axis struct {
	Title          *AxisTitle     `json:"title,omitempty"`
	Type           string         `json:"type,omitempty"`
	Domain         []float64      `json:"domain,omitempty"`
	Anchor         string         `json:"anchor,omitempty"`
	Matches        string         `json:"matches,omitempty"`
	Overlaying     string         `json:"overlaying,omitempty"`
	Side           string         `json:"side,omitempty"`
	Range          []float64      `json:"range,omitempty"`
	ShowTickLabels *bool          `json:"showticklabels,omitempty"`
	ShowGrid       *bool          `json:"showgrid,omitempty"`
	RangeSlider    *RangeSlider   `json:"rangeslider,omitempty"`
	RangeSelector  *RangeSelector `json:"rangeselector,omitempty"`
}

// Annotation is a free-floating text element; the panel titles use it.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
	YShift    float64 `json:"yshift,omitempty"`
	Font      *Font   `json:"font,omitempty"`
}

// ModeBar extends the hover toolbar with extra tool buttons.
type ModeBar struct {
	Add []string `json:"add,omitempty"`
}

// HoverLabel styles the unified hover readout.
type HoverLabel struct {
	Align string `json:"align,omitempty"`
}

// Layout is the full presentation state of the figure.
type Layout struct {
	Title       Title        `json:"title"`
	Height      int          `json:"height"`
	Margin      Margin       `json:"margin"`
	ShowLegend  bool         `json:"showlegend"`
	Legend      Legend       `json:"legend"`
	HoverMode   string       `json:"hovermode"`
	Template    *Template    `json:"template,omitempty"`
	UIRevision  string       `json:"uirevision"`
	ModeBar     *ModeBar     `json:"modebar,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	XAxis2      *Axis        `json:"xaxis2,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	YAxis2      *Axis        `json:"yaxis2,omitempty"`
	YAxis3      *Axis        `json:"yaxis3,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Config holds the renderer options passed alongside data and layout.
type Config struct {
	Responsive bool `json:"responsive"`
}

// Figure is the complete declarative chart document. Marshaled as one JSON
// object it is everything the client-side renderer needs.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Config Config  `json:"config"`
}

// TraceNames returns the name of every trace in draw order.
func (f *Figure) TraceNames() []string {
	names := make([]string, len(f.Data))
	for i, tr := range f.Data {
		names[i] = tr.Name
	}
	return names
}

// TimeBounds returns the [min, max] over the time values of every trace.
// ok is false when the figure has no finite time samples.
func (f *Figure) TimeBounds() (min, max float64, ok bool) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, tr := range f.Data {
		for _, x := range tr.X {
			if math.IsNaN(x) {
				continue
			}
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
			ok = true
		}
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}
