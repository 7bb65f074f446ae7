// Package build exposes the command that regenerates the site without publishing it.
package build
