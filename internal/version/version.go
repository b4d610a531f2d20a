// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/longkey1/chatbox/internal/version.Version=v1.0.0 ..."
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// Short returns only the version number
func Short() string {
	return Version
}

// Info returns detailed version information
func Info() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuilt: %s\nGo: %s",
		Version, CommitSHA, BuildTime, runtime.Version())
}
