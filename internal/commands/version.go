package commands

import (
	"fmt"

	"desknotify/internal/output"
)

// Version information, set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// VersionString is the one-line version banner.
func VersionString() string {
	return fmt.Sprintf("desktop-notify version %s (commit %s, built %s)", Version, Commit, Date)
}

func RunVersion() {
	output.Print(map[string]string{"version": Version, "commit": Commit, "date": Date}, func() {
		fmt.Println(VersionString())
	})
}
