package main

import (
	"fmt"
	"os"
)

const releaseVersion = "0.1.0"

// main - is the entry point of the application. It builds the command line and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newCmd().Execute(); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}
