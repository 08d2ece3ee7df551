// Package chart builds the declarative two-panel figure document from a
// cleaned signal table: EEG channels on the top panel, ECG plus the CM
// reference on the bottom panel with linked time axes, a range slider, and
// preset zoom buttons.
//
// The package owns the figure model only. Rendering happens client-side in
// the exported HTML; static image export drives that same document through a
// headless browser. The JSON form of a Figure is the interchange contract:
// missing samples serialize as null and the layout carries its theme inline.
package chart
