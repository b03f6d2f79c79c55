package cmd

import (
	"fmt"
	"io"
)

// Set at build time with -ldflags "-X vinted-listing/cmd.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func versionText() string {
	return fmt.Sprintf("vinted-listing version %s (commit %s, compilé le %s)", Version, Commit, BuildTime)
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, versionText())
}
