// Package status reports the publishing state of the generated output working copy.
package status
