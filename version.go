// Package cronhide runs a command and hides its output unless it fails.
package cronhide

// Version is the released version of cronhide.
const Version = "0.3.0"
