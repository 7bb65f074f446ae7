// Package hugo runs the Hugo static site generator for a configured site root.
package hugo
