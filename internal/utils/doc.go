// Package utils hosts shared infrastructure for the sitepub CLI: logger
// construction, configuration loading, and command context helpers.
package utils
