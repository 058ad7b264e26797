// Package testutils provides shared helpers for tests: domain entity
// fixtures, a mock JWT service for handler tests, an in-memory slog
// handler for asserting on log output, and small HTTP helpers.
package testutils
