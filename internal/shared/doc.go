// Package shared holds helpers used across the report processor that do
// not belong to one layer.
//
// testutil captures slog output so tests can assert on what a component
// logged.
package shared
