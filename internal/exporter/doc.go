// Package exporter writes the chart artifacts.
//
// Four writers cover the artifact set:
//
// HTMLWriter: the interactive chart page, a self-contained document carrying
// the figure as an embedded JSON block plus a pinned CDN reference to the
// client-side renderer. ExtractFigure is its inverse.
//
// StaticExporter: PNG and PDF snapshots captured by driving the HTML
// artifact through a headless Chrome or Chromium session. When no browser is
// installed the run degrades to HTML-only with a logged hint.
//
// TableWriter: the cleaned table itself, as BOM-prefixed CSV and as a
// single-sheet workbook, with missing samples as empty cells.
//
// Exporter ties them together for one run and reports what was written.
package exporter
