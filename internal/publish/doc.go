// Package publish rebuilds the static site and pushes the generated output
// working copy to its configured remote.
package publish
