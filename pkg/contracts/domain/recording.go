package domain

import "math"

// Channel is a single named sequence of samples aligned 1:1 with the shared
// time axis of its SignalTable. Samples that could not be parsed from the
// source are math.NaN.
type Channel struct {
	Name    string
	Samples []float64
}

// SignalTable is the cleaned, analysis-ready form of one biosignal recording.
// Invariants established by the loader:
//   - Time is sorted ascending and contains no NaN
//   - every channel has exactly len(Time) samples
//   - no ignore-set column name appears among the channels
//
// A SignalTable is never mutated after construction; Decimate returns a new
// reduced table.
type SignalTable struct {
	Source   string
	Time     []float64
	Channels []Channel
}

// Rows returns the number of samples per channel.
func (t *SignalTable) Rows() int {
	return len(t.Time)
}

// Empty reports whether the table has no rows left after cleaning.
// An empty table is valid, if degenerate; downstream consumers must
// tolerate it.
func (t *SignalTable) Empty() bool {
	return len(t.Time) == 0
}

// ChannelNames returns the channel names in source column order.
func (t *SignalTable) ChannelNames() []string {
	names := make([]string, len(t.Channels))
	for i, ch := range t.Channels {
		names[i] = ch.Name
	}
	return names
}

// Channel returns the sample sequence for the named channel.
func (t *SignalTable) Channel(name string) ([]float64, bool) {
	for _, ch := range t.Channels {
		if ch.Name == name {
			return ch.Samples, true
		}
	}
	return nil, false
}

// HasChannel reports whether the named channel is present.
func (t *SignalTable) HasChannel(name string) bool {
	_, ok := t.Channel(name)
	return ok
}

// TimeRange returns the [min, max] bounds of the time axis. ok is false for
// an empty table. Time is sorted, so the bounds are the first and last values.
func (t *SignalTable) TimeRange() (min, max float64, ok bool) {
	if len(t.Time) == 0 {
		return math.NaN(), math.NaN(), false
	}
	return t.Time[0], t.Time[len(t.Time)-1], true
}

// Decimate returns a new SignalTable keeping rows 0, step, 2·step, … of the
// receiver. The result has ceil(rows/step) rows. A step of 1 (or less)
// returns an identical copy.
func (t *SignalTable) Decimate(step int) *SignalTable {
	if step < 1 {
		step = 1
	}
	out := &SignalTable{
		Source:   t.Source,
		Time:     decimateSeries(t.Time, step),
		Channels: make([]Channel, len(t.Channels)),
	}
	for i, ch := range t.Channels {
		out.Channels[i] = Channel{Name: ch.Name, Samples: decimateSeries(ch.Samples, step)}
	}
	return out
}

func decimateSeries(values []float64, step int) []float64 {
	n := (len(values) + step - 1) / step
	out := make([]float64, 0, n)
	for i := 0; i < len(values); i += step {
		out = append(out, values[i])
	}
	return out
}
