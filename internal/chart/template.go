package chart

// Template is a white chart theme embedded in the layout. The client-side
// renderer has no named themes, so the figure carries the theme object itself.
type Template struct {
	Layout TemplateLayout `json:"layout"`
}

// TemplateLayout holds the themed layout defaults.
type TemplateLayout struct {
	PaperBGColor string        `json:"paper_bgcolor"`
	PlotBGColor  string        `json:"plot_bgcolor"`
	Font         *Font         `json:"font,omitempty"`
	HoverMode    string        `json:"hovermode,omitempty"`
	HoverLabel   *HoverLabel   `json:"hoverlabel,omitempty"`
	XAxis        *TemplateAxis `json:"xaxis,omitempty"`
	YAxis        *TemplateAxis `json:"yaxis,omitempty"`
}

// TemplateAxis holds the themed axis defaults.
type TemplateAxis struct {
	GridColor     string `json:"gridcolor"`
	LineColor     string `json:"linecolor"`
	ZeroLineColor string `json:"zerolinecolor"`
	AutoMargin    bool   `json:"automargin"`
	Ticks         string `json:"ticks"`
}

// whiteTemplate mirrors the standard white theme: white backgrounds, dark
// slate text and pale blue-gray grid lines.
func whiteTemplate() *Template {
	axis := func() *TemplateAxis {
		return &TemplateAxis{
			GridColor:     "#EBF0F8",
			LineColor:     "#EBF0F8",
			ZeroLineColor: "#EBF0F8",
			AutoMargin:    true,
			Ticks:         "",
		}
	}
	return &Template{
		Layout: TemplateLayout{
			PaperBGColor: "white",
			PlotBGColor:  "white",
			Font:         &Font{Color: "#2a3f5f"},
			HoverMode:    "closest",
			HoverLabel:   &HoverLabel{Align: "left"},
			XAxis:        axis(),
			YAxis:        axis(),
		},
	}
}
