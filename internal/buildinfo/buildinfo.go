// Package buildinfo carries build-time metadata injected via -ldflags and
// prints it on CLI startup.
package buildinfo

import (
	"fmt"
	"io"
)

// Populated at build time, e.g.:
//
//	go build -ldflags "-X github.com/dmitrijs2005/scalehub/internal/buildinfo.buildVersion=v1.0.0"
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes the build stamp to w, one line per field.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
