package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/orderpipe/orderpipe/internal/cli"
	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(orderpipe.ExitPanic)
		}
	}()

	if os.Getenv("ORDERPIPE_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(orderpipe.ExitCodeForError(err))
	}
}
