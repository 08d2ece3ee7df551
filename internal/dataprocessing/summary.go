package dataprocessing

import (
	"context"
	"log/slog"
	"math"

	"eegviz/pkg/contracts/domain"
)

// ChannelSummary holds descriptive statistics for one channel. Min, Max and
// Mean cover the present (non-NaN) samples only and stay zero when every
// sample of the channel is missing.
type ChannelSummary struct {
	Name    string  `json:"name"`
	Kind    string  `json:"kind"`
	Samples int     `json:"samples"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
}

// Summarizer computes per-channel statistics of a cleaned SignalTable for
// logs, the summary API and the recording inspector.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer. A nil logger falls back to
// slog.Default().
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize returns one ChannelSummary per channel in source column order.
func (s *Summarizer) Summarize(ctx context.Context, table *domain.SignalTable) []ChannelSummary {
	if table == nil {
		return nil
	}

	summaries := make([]ChannelSummary, 0, len(table.Channels))
	for _, ch := range table.Channels {
		summaries = append(summaries, summarizeChannel(ch))
	}

	s.logger.DebugContext(ctx, "Summarized recording",
		slog.String("source", table.Source),
		slog.Int("rows", table.Rows()),
		slog.Int("channels", len(summaries)))

	return summaries
}

func summarizeChannel(ch domain.Channel) ChannelSummary {
	summary := ChannelSummary{
		Name:    ch.Name,
		Kind:    classifyChannel(ch.Name),
		Samples: len(ch.Samples),
	}

	var (
		sum     float64
		present int
	)
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range ch.Samples {
		if math.IsNaN(v) {
			summary.Missing++
			continue
		}
		present++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if present > 0 {
		summary.Min = min
		summary.Max = max
		summary.Mean = sum / float64(present)
	}

	return summary
}

// classifyChannel maps a channel name onto its vocabulary group.
func classifyChannel(name string) string {
	switch {
	case domain.IsEEGChannel(name):
		return "eeg"
	case domain.IsECGChannel(name):
		return "ecg"
	case domain.IsReferenceChannel(name):
		return "reference"
	default:
		return "other"
	}
}
