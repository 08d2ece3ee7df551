// Package shared provides common utilities and test helpers used across the
// eegviz codebase. It serves as a central location for shared functionality
// that doesn't belong to any specific domain or architectural layer.
//
// # Structure
//
// The package is organized into the following components:
//
// - testutil: Testing utilities including log capture and recording fixtures
//
// # Usage Guidelines
//
// This package should only contain:
//
// 1. Test utilities used by multiple packages
// 2. Generic helper functions with no domain-specific logic
//
// It should NOT contain:
//
// 1. Business logic or domain-specific code
// 2. Circular dependencies with other internal packages
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler for asserting on structured log output
//	- RecordingFixtures for writing sample recording files
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    // run code under test with logger
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "Loaded recording")
//	}
package shared
