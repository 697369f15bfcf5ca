// Command tinyfeedctl administers a tinyfeed database directly.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := rootApp(os.Stdout).Run(os.Args); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
