// Package file provides the TOML config store behind the saved import
// profile at ~/.nineslice/config.toml.
package file
