// =============================================================================
// main.go - screensim CLI Entry Point
// =============================================================================
//
// screensim stands in for the hardware screens of a debugger target. It dials
// the debugger, interprets the drawing commands it receives, keeps one
// display list per virtual screen and reports touch, power and resolution
// changes back. A local console takes the place of the touch panel.
//
// Usage:
//
//	screensim run                               Dial the default endpoint
//	screensim run --endpoint unix:///tmp/dbg    Dial a Unix socket
//	screensim run --record session.db           Record the transcript
//	screensim replay --db session.db --png-dir out
//	screensim config show
//
// =============================================================================

package main

import (
	"fmt"
	"os"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of screensim.
	version = "0.3.0"

	// appName is the application name.
	appName = "screensim"

	// copyright is the copyright notice.
	copyright = "Copyright (c) 2026"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner is printed when the console starts on a terminal.
func welcomeBanner(endpoint string) string {
	return fmt.Sprintf(`%s - Virtual Screen Simulator
%s

Attached to %s
Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), copyright, endpoint)
}

// =============================================================================
// Main Entry Point
// =============================================================================

func main() {
	os.Exit(execute())
}
