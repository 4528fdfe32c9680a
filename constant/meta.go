// Package constant holds application identifiers and fixed playback limits.
package constant

import _ "embed"

const (
	Kptv      = "kptv"
	Version   = "0.4.2"
	UserAgent = Kptv + "/" + Version
)

// Build metadata, set with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

//go:embed ascii.txt
var AsciiArtLogo string

// GOOS values with platform specific behavior.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
