// Package dataprocessing turns raw biosignal recordings into cleaned,
// analysis-ready tables. It covers the full ingestion lifecycle from file
// bytes to per-channel statistics.
//
// # Architecture
//
// The package is organized around three pieces:
//
// 1. Loader: reads CSV or XLSX recordings and applies the cleaning contract
// 2. Summarizer: computes per-channel descriptive statistics
// 3. DiscoverLatest: picks the newest recording out of a directory
//
// # Usage
//
// Loading a recording with every 4th row kept:
//
//	loader := dataprocessing.NewLoader(logger)
//	table, err := loader.Load(ctx, "data/recordings/session_raw.csv", 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Summarizing the channels:
//
//	summarizer := dataprocessing.NewSummarizer(logger)
//	stats := summarizer.Summarize(ctx, table)
//
// # Cleaning Contract
//
// Every load applies the same rules regardless of the source format:
//
//   - '#' comment lines and a UTF-8 BOM on the header are tolerated
//   - the exact Time column is required; its absence is a SchemaError
//   - rows whose Time cell does not parse are dropped
//   - rows are stable-sorted by Time ascending
//   - ignore-set columns (triggers, ADC status, annotations) are removed
//   - every other cell is coerced to float64, with NaN for unparseable values
//
// A recording whose rows all fail Time parsing yields a valid zero-row table.
//
// # Error Handling
//
// Only structural problems are fatal: a missing Time column, an unreadable
// file, or malformed CSV/XLSX framing. Cell-level garbage degrades to NaN and
// is reported through the summary statistics instead.
package dataprocessing
