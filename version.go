package sprig

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the current release of the sprig module and CLI.
var Version = strings.TrimSpace(version)
