// Package main is the LangHelper command-line client.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func buildVersion() string {
	return fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
}

func main() {
	logger := newLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatal(err)
	}
}
