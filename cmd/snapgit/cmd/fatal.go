package cmd

import (
	"fmt"
	"log"
	"os"
)

// Exits go through these hooks, so that tests may record failures instead of terminating.
var (
	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// infoLogger prints command results on stdout. Tests redirect it.
	infoLogger = log.New(os.Stdout, "", 0)
)

// wrapFatalln exits after reporting what failed, with the cause when there is one
func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
		return
	}
	logFatalf("%v", fmt.Errorf("%s: %w", msg, err))
}
