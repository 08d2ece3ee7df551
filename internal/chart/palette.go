package chart

// palette is the fixed 21-color cycle used for signal traces. EEG channels
// consume it in vocabulary order; the ECG pair restarts from the first color.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
	"#e377c2", "#7f7f7f", "#bcbd22", "#17becf", "#aec7e8", "#ffbb78",
	"#98df8a", "#ff9896", "#c5b0d5", "#c49c94", "#f7b6d3", "#c7c7c7",
	"#dbdb8d", "#9edae5", "#ad494a",
}

func paletteColor(i int) string {
	return palette[i%len(palette)]
}
